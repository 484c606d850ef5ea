package swatch

import (
	"time"

	"filament-sync/feature/catalog"
	"filament-sync/feature/swatch/models"
)

func toManufacturer(rec *catalog.RemoteRecord) *models.Manufacturer {
	return &models.Manufacturer{
		ID:      rec.Manufacturer.ID,
		Name:    rec.Manufacturer.Name,
		Website: rec.Manufacturer.Website,
	}
}

func toFilamentType(rec *catalog.RemoteRecord) *models.FilamentType {
	return &models.FilamentType{
		ID:         rec.FilamentType.ID,
		Name:       rec.FilamentType.Name,
		HotEndTemp: rec.FilamentType.HotEndTemp,
		BedTemp:    rec.FilamentType.BedTemp,
		ParentType: rec.FilamentType.ParentType,
	}
}

func toSwatch(rec *catalog.RemoteRecord, stamp time.Time) *models.Swatch {
	sw := &models.Swatch{
		ID:                 rec.ID,
		ColorName:          rec.ColorName,
		ColorParent:        rec.ColorParent,
		AltColorParent:     rec.AltColorParent,
		HexColor:           rec.HexColor,
		ImageFront:         rec.ImageFront,
		ImageBack:          rec.ImageBack,
		ImageOther:         rec.ImageOther,
		CardImg:            rec.CardImg,
		DateAdded:          rec.DateAdded,
		DatePublished:      rec.DatePublished,
		HumanReadableDate:  rec.HumanReadableDate,
		Notes:              rec.Notes,
		AmazonPurchaseLink: rec.AmazonPurchaseLink,
		MfrPurchaseLink:    rec.MfrPurchaseLink,
		IsAvailable:        rec.IsAvailable,
		Published:          rec.Published,
		Td:                 rec.Td,
		TdRange:            rec.TdRange,
		ManufacturerID:     rec.Manufacturer.ID,
		FilamentTypeID:     rec.FilamentType.ID,
		OriginalJSON:       string(rec.Raw),
		LastSynced:         stamp,
	}

	for i, m := range rec.Pantone {
		sw.PantoneColors = append(sw.PantoneColors, models.PantoneColor{
			SwatchID: rec.ID, Rank: i + 1, Code: m.Code, Name: m.Name, HexColor: m.HexColor, Category: m.Category,
		})
	}
	for i, m := range rec.Pms {
		sw.PmsColors = append(sw.PmsColors, models.PmsColor{
			SwatchID: rec.ID, Rank: i + 1, Code: m.Code, HexColor: m.HexColor,
		})
	}
	for i, m := range rec.Ral {
		sw.RalColors = append(sw.RalColors, models.RalColor{
			SwatchID: rec.ID, Rank: i + 1, Code: m.Code, Name: m.Name, HexColor: m.HexColor, Category: m.Category,
		})
	}
	return sw
}
