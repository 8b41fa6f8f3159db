package domain

import (
	"github.com/google/uuid"
)

// WineRecord is one entry of the wine catalog. The ID doubles as the join
// key into the vector store.
type WineRecord struct {
	ID          uuid.UUID
	Name        string
	Producer    string
	Region      string
	SubRegion   string
	Country     string
	Varietal    string
	Vintage     int
	Price       float64
	Style       string
	ImagePath   string
	AlcoholPerc float64
	Metadata    map[string]any
}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min float64
	Max float64
}

// CatalogFilter narrows the candidate wine set. Nil/empty fields match all
// wines for that dimension; set fields compose with AND semantics.
type CatalogFilter struct {
	Region     *string
	Style      *string
	PriceRange *PriceRange
}

// Matches reports whether the wine satisfies every set filter dimension.
func (f CatalogFilter) Matches(wine WineRecord) bool {
	if f.Region != nil && wine.Region != *f.Region {
		return false
	}
	if f.Style != nil && wine.Style != *f.Style {
		return false
	}
	if f.PriceRange != nil && (wine.Price < f.PriceRange.Min || wine.Price > f.PriceRange.Max) {
		return false
	}
	return true
}

// Validate rejects filters that can never match anything.
func (f CatalogFilter) Validate() error {
	if f.PriceRange != nil && f.PriceRange.Min > f.PriceRange.Max {
		return NewValidationErr("price range lower bound cannot exceed upper bound")
	}
	return nil
}

// FilterWines returns the wines matching the filter, preserving catalog order.
func FilterWines(wines []WineRecord, filter CatalogFilter) []WineRecord {
	filtered := make([]WineRecord, 0, len(wines))
	for _, wine := range wines {
		if filter.Matches(wine) {
			filtered = append(filtered, wine)
		}
	}
	return filtered
}
