package checks

import (
	"fmt"
	"reflect"
	"strings"

	"filament-sync/core/database"
	"filament-sync/feature/swatch/models"

	"gorm.io/gorm"
)

// SchemaReport is the result of comparing the catalog models with the live schema.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "missing", "error"
}

// CheckSchema verifies every catalog table using the GORM models as the source of truth.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	return checkModels(db, models.All()...)
}

func checkModels(db *gorm.DB, all ...any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
		Matched: true,
	}

	for _, model := range all {
		tabler, ok := model.(interface{ TableName() string })
		if !ok {
			return nil, fmt.Errorf("model %T does not implement TableName", model)
		}
		table := tabler.TableName()

		if !db.Migrator().HasTable(table) {
			report.Tables[table] = TableReport{
				MissingColumns: []string{},
				TypeMismatches: []string{},
				Status:         "missing",
			}
			report.Matched = false
			continue
		}

		actual, err := database.GetTableColumns(db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}

		tbl := compareColumns(model, actual)
		if tbl.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	return report, nil
}

// compareColumns checks each tagged column of model against the live columns.
// Only explicit "type:" tags are compared, as a substring of the live type.
func compareColumns(model any, actual []database.ColumnInfo) TableReport {
	tbl := TableReport{
		MissingColumns: []string{},
		TypeMismatches: []string{},
		Status:         "ok",
	}

	byName := make(map[string]database.ColumnInfo, len(actual))
	for _, col := range actual {
		byName[col.Field] = col
	}

	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("gorm")
		name := parseGormColumn(tag)
		if name == "" {
			continue // association
		}

		col, ok := byName[name]
		if !ok {
			tbl.MissingColumns = append(tbl.MissingColumns, name)
			tbl.Status = "error"
			continue
		}

		expected := strings.ToLower(parseGormType(tag))
		if expected != "" && !strings.Contains(col.Type, expected) {
			tbl.TypeMismatches = append(tbl.TypeMismatches,
				fmt.Sprintf("%s: expected %s, got %s", name, expected, col.Type))
			tbl.Status = "error"
		}
	}

	return tbl
}

func parseGormColumn(tag string) string {
	return tagValue(tag, "column:")
}

func parseGormType(tag string) string {
	return tagValue(tag, "type:")
}

func tagValue(tag, key string) string {
	for _, p := range strings.Split(tag, ";") {
		if v, ok := strings.CutPrefix(p, key); ok {
			return v
		}
	}
	return ""
}
