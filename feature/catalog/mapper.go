package catalog

import (
	"bytes"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Map converts one raw catalog item into a RemoteRecord.
// It performs no I/O. A record missing its identifier or either parent
// reference is rejected with a *MappingError naming the field.
func Map(raw json.RawMessage) (*RemoteRecord, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &MappingError{Field: "record", Err: errMissing}
	}

	var dto recordDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, &MappingError{Field: "record", Err: err}
	}

	switch {
	case dto.ID == nil || *dto.ID <= 0:
		return nil, &MappingError{Field: "id", Err: errMissing}
	case dto.Manufacturer == nil:
		return nil, &MappingError{Field: "manufacturer", Err: errMissing}
	case dto.Manufacturer.ID == nil || *dto.Manufacturer.ID <= 0:
		return nil, &MappingError{Field: "manufacturer.id", Err: errMissing}
	case dto.FilamentType == nil:
		return nil, &MappingError{Field: "filament_type", Err: errMissing}
	case dto.FilamentType.ID == nil || *dto.FilamentType.ID <= 0:
		return nil, &MappingError{Field: "filament_type.id", Err: errMissing}
	}

	rec := &RemoteRecord{
		ID:                 *dto.ID,
		ColorName:          dto.ColorName,
		ColorParent:        dto.ColorParent,
		AltColorParent:     nonEmpty(dto.AltColorParent),
		HexColor:           dto.HexColor,
		ImageFront:         dto.ImageFront,
		ImageBack:          dto.ImageBack,
		ImageOther:         nonEmpty(dto.ImageOther),
		CardImg:            dto.CardImg,
		DateAdded:          parseDate(dto.DateAdded),
		DatePublished:      parseDate(dto.DatePublished),
		HumanReadableDate:  dto.HumanReadableDate,
		Notes:              dto.Notes,
		AmazonPurchaseLink: nonEmpty(dto.AmazonPurchaseLink),
		MfrPurchaseLink:    nonEmpty(dto.MfrPurchaseLink),
		IsAvailable:        dto.IsAvailable,
		Published:          dto.Published,
		Td:                 dto.Td,
		TdRange:            dto.TdRange,
		Manufacturer: RemoteManufacturer{
			ID:      *dto.Manufacturer.ID,
			Name:    dto.Manufacturer.Name,
			Website: dto.Manufacturer.Website,
		},
		FilamentType: RemoteFilamentType{
			ID:         *dto.FilamentType.ID,
			Name:       dto.FilamentType.Name,
			HotEndTemp: dto.FilamentType.HotEndTemp,
			BedTemp:    dto.FilamentType.BedTemp,
		},
		Pantone: collect(true, dto.ClosestPantone1, dto.ClosestPantone2, dto.ClosestPantone3),
		Pms:     collect(false, dto.ClosestPms1, dto.ClosestPms2, dto.ClosestPms3),
		Ral:     collect(true, dto.ClosestRal1, dto.ClosestRal2, dto.ClosestRal3),
		Raw:     append(json.RawMessage(nil), raw...),
	}
	if pt := dto.FilamentType.ParentType; pt != nil && pt.Name != "" {
		name := pt.Name
		rec.FilamentType.ParentType = &name
	}
	if len(rec.TdRange) == 0 {
		rec.TdRange = nil
	}

	return rec, nil
}

// collect keeps every non-null rank in order, including entries with an
// empty code. Standards without names and categories (PMS) drop those attributes.
func collect(named bool, ranked ...*matchDTO) []ColorMatch {
	out := make([]ColorMatch, 0, MaxMatches)
	for _, m := range ranked {
		if m == nil {
			continue
		}
		cm := ColorMatch{Code: m.Code, HexColor: m.HexColor}
		if named {
			cm.Name = nonEmpty(m.Name)
			cm.Category = m.Category
		}
		out = append(out, cm)
		if len(out) == MaxMatches {
			break
		}
	}
	return out
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

// parseDate returns nil for a missing, empty or unparseable date.
func parseDate(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(*s)); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
