package models

import (
	"time"

	"gorm.io/gorm"
)

// Manufacturer is a filament maker. Its ID is assigned by the remote catalog.
type Manufacturer struct {
	ID      int    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name    string `gorm:"column:name;size:255" json:"name"`
	Website string `gorm:"column:website;size:512" json:"website"`
}

// TableName overrides the table name.
func (Manufacturer) TableName() string {
	return "manufacturers"
}

// FilamentType is a material family (PLA, PETG...). Its ID is assigned by the remote catalog.
type FilamentType struct {
	ID         int     `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name       string  `gorm:"column:name;size:255" json:"name"`
	HotEndTemp int     `gorm:"column:hot_end_temp" json:"hotEndTemp"`
	BedTemp    int     `gorm:"column:bed_temp" json:"bedTemp"`
	ParentType *string `gorm:"column:parent_type;size:255" json:"parentType,omitempty"`
}

// TableName overrides the table name.
func (FilamentType) TableName() string {
	return "filament_types"
}

// Swatch is one physical filament sample. Its ID is the reconciliation key.
type Swatch struct {
	ID                 int       `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	ColorName          string    `gorm:"column:color_name;size:255" json:"colorName"`
	ColorParent        string    `gorm:"column:color_parent;size:64;index" json:"colorParent"`
	AltColorParent     *string   `gorm:"column:alt_color_parent;size:64" json:"altColorParent,omitempty"`
	HexColor           string    `gorm:"column:hex_color;size:16;index" json:"hexColor"`
	ImageFront         string    `gorm:"column:image_front;size:512" json:"imageFront"`
	ImageBack          string    `gorm:"column:image_back;size:512" json:"imageBack"`
	ImageOther         *string   `gorm:"column:image_other;size:512" json:"imageOther,omitempty"`
	CardImg            string    `gorm:"column:card_img;size:512" json:"cardImg"`
	DateAdded          *time.Time `gorm:"column:date_added" json:"dateAdded"`
	DatePublished      *time.Time `gorm:"column:date_published;index" json:"datePublished"`
	HumanReadableDate  string    `gorm:"column:human_readable_date;size:64" json:"humanReadableDate"`
	Notes              string    `gorm:"column:notes;type:text" json:"notes"`
	AmazonPurchaseLink *string   `gorm:"column:amazon_purchase_link;size:1024" json:"amazonPurchaseLink,omitempty"`
	MfrPurchaseLink    *string   `gorm:"column:mfr_purchase_link;size:1024" json:"mfrPurchaseLink,omitempty"`
	IsAvailable        bool      `gorm:"column:is_available" json:"isAvailable"`
	Published          bool      `gorm:"column:published" json:"published"`
	Td                 *float64  `gorm:"column:td" json:"td,omitempty"`
	TdRange            []float64 `gorm:"column:td_range;serializer:json;type:text" json:"tdRange,omitempty"`

	ManufacturerID int          `gorm:"column:manufacturer_id;index" json:"manufacturerId"`
	Manufacturer   Manufacturer `gorm:"foreignKey:ManufacturerID" json:"manufacturer"`
	FilamentTypeID int          `gorm:"column:filament_type_id;index" json:"filamentTypeId"`
	FilamentType   FilamentType `gorm:"foreignKey:FilamentTypeID" json:"filamentType"`

	PantoneColors []PantoneColor `gorm:"foreignKey:SwatchID;constraint:OnDelete:CASCADE" json:"pantoneColors"`
	PmsColors     []PmsColor     `gorm:"foreignKey:SwatchID;constraint:OnDelete:CASCADE" json:"pmsColors"`
	RalColors     []RalColor     `gorm:"foreignKey:SwatchID;constraint:OnDelete:CASCADE" json:"ralColors"`

	// OriginalJSON is the catalog payload as received.
	OriginalJSON string `gorm:"column:original_json;type:text" json:"-"`

	LastSynced time.Time `gorm:"column:last_synced;index" json:"lastSynced"`
}

// TableName overrides the table name.
func (Swatch) TableName() string {
	return "swatches"
}

// PantoneColor is a ranked Pantone match owned by a swatch.
type PantoneColor struct {
	ID       uint    `gorm:"column:id;primaryKey" json:"-"`
	SwatchID int     `gorm:"column:swatch_id;index" json:"-"`
	Rank     int     `gorm:"column:match_rank" json:"rank"`
	Code     string  `gorm:"column:code;size:64" json:"code"`
	Name     *string `gorm:"column:name;size:255" json:"name,omitempty"`
	HexColor string  `gorm:"column:hex_color;size:16" json:"hexColor"`
	Category string  `gorm:"column:category;size:64" json:"category"`
}

// TableName overrides the table name.
func (PantoneColor) TableName() string {
	return "pantone_colors"
}

// PmsColor is a ranked PMS match owned by a swatch.
type PmsColor struct {
	ID       uint   `gorm:"column:id;primaryKey" json:"-"`
	SwatchID int    `gorm:"column:swatch_id;index" json:"-"`
	Rank     int    `gorm:"column:match_rank" json:"rank"`
	Code     string `gorm:"column:code;size:64" json:"code"`
	HexColor string `gorm:"column:hex_color;size:16" json:"hexColor"`
}

// TableName overrides the table name.
func (PmsColor) TableName() string {
	return "pms_colors"
}

// RalColor is a ranked RAL match owned by a swatch.
type RalColor struct {
	ID       uint    `gorm:"column:id;primaryKey" json:"-"`
	SwatchID int     `gorm:"column:swatch_id;index" json:"-"`
	Rank     int     `gorm:"column:match_rank" json:"rank"`
	Code     string  `gorm:"column:code;size:64" json:"code"`
	Name     *string `gorm:"column:name;size:255" json:"name,omitempty"`
	HexColor string  `gorm:"column:hex_color;size:16" json:"hexColor"`
	Category string  `gorm:"column:category;size:64" json:"category"`
}

// TableName overrides the table name.
func (RalColor) TableName() string {
	return "ral_colors"
}

// All returns every persisted model in migration order.
func All() []any {
	return []any{
		&Manufacturer{},
		&FilamentType{},
		&Swatch{},
		&PantoneColor{},
		&PmsColor{},
		&RalColor{},
	}
}

// Tables returns the table names of All.
func Tables() []string {
	return []string{
		Manufacturer{}.TableName(),
		FilamentType{}.TableName(),
		Swatch{}.TableName(),
		PantoneColor{}.TableName(),
		PmsColor{}.TableName(),
		RalColor{}.TableName(),
	}
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
