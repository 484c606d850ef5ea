package catalog

import (
	"time"

	"github.com/goccy/go-json"
)

// MaxMatches is the number of ranked matches the catalog publishes per color standard.
const MaxMatches = 3

// RemoteRecord is one mapped catalog item.
// Optional attributes are nil when the catalog omitted them.
type RemoteRecord struct {
	ID                 int
	ColorName          string
	ColorParent        string
	AltColorParent     *string
	HexColor           string
	ImageFront         string
	ImageBack          string
	ImageOther         *string
	CardImg            string
	DateAdded          *time.Time
	DatePublished      *time.Time
	HumanReadableDate  string
	Notes              string
	AmazonPurchaseLink *string
	MfrPurchaseLink    *string
	IsAvailable        bool
	Published          bool
	Td                 *float64
	TdRange            []float64

	Manufacturer RemoteManufacturer
	FilamentType RemoteFilamentType

	// Ranked matches per color standard, best first, at most MaxMatches each.
	Pantone []ColorMatch
	Pms     []ColorMatch
	Ral     []ColorMatch

	// Raw is the record payload exactly as received.
	Raw json.RawMessage
}

// RemoteManufacturer is the manufacturer embedded in a catalog item.
type RemoteManufacturer struct {
	ID      int
	Name    string
	Website string
}

// RemoteFilamentType is the filament type embedded in a catalog item.
type RemoteFilamentType struct {
	ID         int
	Name       string
	HotEndTemp int
	BedTemp    int
	ParentType *string
}

// ColorMatch is one ranked entry of an external color standard.
// PMS entries carry neither Name nor Category.
type ColorMatch struct {
	Code     string
	Name     *string
	HexColor string
	Category string
}

// Page is one decoded page of the paginated collection.
type Page struct {
	// Index is the 1-based position of the page in the walk.
	Index    int
	URL      string
	Count    int
	Next     *string
	Previous *string
	Results  []json.RawMessage
}

type pageDTO struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []json.RawMessage `json:"results"`
}

type recordDTO struct {
	ID                 *int             `json:"id"`
	Manufacturer       *manufacturerDTO `json:"manufacturer"`
	ColorName          string           `json:"color_name"`
	FilamentType       *filamentTypeDTO `json:"filament_type"`
	ColorParent        string           `json:"color_parent"`
	AltColorParent     *string          `json:"alt_color_parent"`
	HexColor           string           `json:"hex_color"`
	ImageFront         string           `json:"image_front"`
	ImageBack          string           `json:"image_back"`
	ImageOther         *string          `json:"image_other"`
	CardImg            string           `json:"card_img"`
	DateAdded          *string          `json:"date_added"`
	DatePublished      *string          `json:"date_published"`
	HumanReadableDate  string           `json:"human_readable_date"`
	Notes              string           `json:"notes"`
	AmazonPurchaseLink *string          `json:"amazon_purchase_link"`
	MfrPurchaseLink    *string          `json:"mfr_purchase_link"`
	IsAvailable        bool             `json:"is_available"`
	Published          bool             `json:"published"`
	Td                 *float64         `json:"td"`
	TdRange            []float64        `json:"td_range"`

	ClosestPantone1 *matchDTO `json:"closest_pantone_1"`
	ClosestPantone2 *matchDTO `json:"closest_pantone_2"`
	ClosestPantone3 *matchDTO `json:"closest_pantone_3"`
	ClosestPms1     *matchDTO `json:"closest_pms_1"`
	ClosestPms2     *matchDTO `json:"closest_pms_2"`
	ClosestPms3     *matchDTO `json:"closest_pms_3"`
	ClosestRal1     *matchDTO `json:"closest_ral_1"`
	ClosestRal2     *matchDTO `json:"closest_ral_2"`
	ClosestRal3     *matchDTO `json:"closest_ral_3"`
}

type manufacturerDTO struct {
	ID      *int   `json:"id"`
	Name    string `json:"name"`
	Website string `json:"website"`
}

type filamentTypeDTO struct {
	ID         *int           `json:"id"`
	Name       string         `json:"name"`
	HotEndTemp int            `json:"hot_end_temp"`
	BedTemp    int            `json:"bed_temp"`
	ParentType *parentTypeDTO `json:"parent_type"`
}

type parentTypeDTO struct {
	Name string `json:"name"`
}

type matchDTO struct {
	Code     string  `json:"code"`
	Name     *string `json:"name"`
	HexColor string  `json:"hex_color"`
	Category string  `json:"category"`
}
