package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo matches the output of SHOW COLUMNS (MySQL) or PRAGMA table_info (SQLite).
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // NULL default is possible
	Extra   string
}

// GetTableColumns retrieves the column definitions for a given table.
// Field and type names are normalised to lower case.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo

	if db.Dialector.Name() == DriverSQLite {
		type sqliteColumn struct {
			Cid       int
			Name      string
			Type      string
			Notnull   int
			DfltValue *string
			Pk        int
		}
		var sqliteCols []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range sqliteCols {
			info := ColumnInfo{
				Field:   strings.ToLower(col.Name),
				Type:    strings.ToLower(col.Type),
				Null:    "YES",
				Default: col.DfltValue,
			}
			if col.Notnull == 1 {
				info.Null = "NO"
			}
			if col.Pk > 0 {
				info.Key = "PRI"
			}
			columns = append(columns, info)
		}
		return columns, nil
	}

	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}

// MissingTables returns the subset of tables that do not exist in the database.
func MissingTables(db *gorm.DB, tables ...string) []string {
	var missing []string
	migrator := db.Migrator()
	for _, t := range tables {
		if !migrator.HasTable(t) {
			missing = append(missing, t)
		}
	}
	return missing
}
