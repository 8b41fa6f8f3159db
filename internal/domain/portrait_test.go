package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRegionSimilarity(t *testing.T) {
	tests := map[string]struct {
		a, b string
		want float64
	}{
		"identical-regions":          {a: "Bordeaux", b: "Bordeaux", want: 1.0},
		"same-group":                 {a: "Burgundy", b: "Mosel", want: 1.0},
		"cool-vs-sparkling":          {a: "Mosel", b: "Champagne", want: 0.8},
		"warm-vs-classic":            {a: "Napa Valley", b: "Bordeaux", want: 0.7},
		"unrelated-groups":           {a: "Champagne", b: "Douro", want: 0.5},
		"unknown-region-falls-back":  {a: "Moonbase", b: "Bordeaux", want: 0.5},
		"both-unknown-but-identical": {a: "Moonbase", b: "Moonbase", want: 1.0},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, RegionSimilarity(tt.a, tt.b))
			assert.Equal(t, tt.want, RegionSimilarity(tt.b, tt.a), "similarity must be symmetric")
		})
	}
}

func TestStyleSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, StyleSimilarity("Red", "Red"))
	assert.Equal(t, 1.0, StyleSimilarity("White", "Orange"))
	assert.Equal(t, 0.7, StyleSimilarity("White", "Sparkling"))
	assert.Equal(t, 0.6, StyleSimilarity("Rosé", "Red"))
	assert.Equal(t, 0.5, StyleSimilarity("Red", "Dessert"))
	assert.Equal(t, 0.5, StyleSimilarity("Chartreuse", "Red"))
}

func TestTastePortrait_ProfileVector(t *testing.T) {
	const currentYear = 2026

	portrait := TastePortrait{
		UserID:         uuid.New(),
		PrimaryCountry: "France",
		PrimaryRegion:  "Bordeaux",
		PrimaryStyle:   "Red",
		Ratings: []PortraitRating{
			{
				WineID:      uuid.New(),
				Country:     "France",
				Region:      "Bordeaux",
				Style:       "Red",
				Vintage:     2026,
				AlcoholPerc: 20,
				Price:       500,
				Rating:      100,
			},
			{
				WineID:      uuid.New(),
				Country:     "Italy",
				Region:      "Champagne",
				Style:       "Dessert",
				Vintage:     1900,
				AlcoholPerc: 8,
				Price:       10,
				Rating:      50,
			},
		},
	}

	got, err := portrait.ProfileVector(currentYear)
	assert.NoError(t, err)
	assert.Equal(t, PortraitVectorDim, got.Dim())

	// First rating contributes (1, 1, 1, 1, 1, 1, 1); the second
	// (0.8, 0.5, 0.5, 0, 0, 0, 0.5). Averaged per dimension.
	want := Vector{0.9, 0.75, 0.75, 0.5, 0.5, 0.5, 0.75}
	assert.InDeltaSlice(t, want, got, 1e-9)
}

func TestTastePortrait_ProfileVector_Defaults(t *testing.T) {
	const currentYear = 2026

	portrait := TastePortrait{
		UserID:        uuid.New(),
		PrimaryRegion: "Bordeaux",
		PrimaryStyle:  "Red",
		Ratings: []PortraitRating{
			{WineID: uuid.New(), Region: "Bordeaux", Style: "Red", Rating: 80},
		},
	}

	got, err := portrait.ProfileVector(currentYear)
	assert.NoError(t, err)

	// Empty country never matches the primary one.
	assert.InDelta(t, 0.8, got[0], 1e-9)
	// Zero vintage defaults to last year.
	assert.InDelta(t, float64(2025-1900)/float64(2026-1900), got[3], 1e-9)
	// Zero alcohol defaults to 13.5%, zero price to 50.
	assert.InDelta(t, (13.5-8)/12.0, got[4], 1e-9)
	assert.InDelta(t, (50.0-10)/490.0, got[5], 1e-9)
	assert.InDelta(t, 0.8, got[6], 1e-9)
}

func TestTastePortrait_ProfileVector_Errors(t *testing.T) {
	_, err := TastePortrait{UserID: uuid.New()}.ProfileVector(2026)
	assert.Error(t, err)
	assert.IsType(t, &ValidationErr{}, err)

	_, err = TastePortrait{
		UserID:  uuid.New(),
		Ratings: []PortraitRating{{WineID: uuid.New(), Rating: 120}},
	}.ProfileVector(2026)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "outside the 0-100 scale")
}

func TestTastePortrait_Summary(t *testing.T) {
	ratings := []PortraitRating{
		{Name: "W1", Region: "Bordeaux", Style: "Red", Rating: 60},
		{Name: "W2", Region: "Burgundy", Style: "Red", Rating: 95},
		{Name: "W3", Region: "Rioja", Style: "White", Rating: 70},
		{Name: "W4", Region: "Mosel", Style: "White", Rating: 90},
		{Name: "W5", Region: "Douro", Style: "Fortified", Rating: 85},
		{Name: "W6", Region: "Provence", Style: "Rosé", Rating: 80},
	}
	portrait := TastePortrait{
		UserID:         uuid.New(),
		PrimaryCountry: "France",
		PrimaryRegion:  "Bordeaux",
		PrimaryStyle:   "Red",
		Ratings:        ratings,
	}

	summary, err := portrait.Summary(2026)
	assert.NoError(t, err)
	assert.Equal(t, "France", summary.PrimaryCountry)
	assert.Equal(t, "Bordeaux", summary.PrimaryRegion)
	assert.Equal(t, "Red", summary.PrimaryStyle)
	assert.InDelta(t, (60+95+70+90+85+80)/6.0, summary.AverageRating, 1e-9)

	// The averaged taste vector rides along for the encoder.
	wantVector, err := portrait.ProfileVector(2026)
	assert.NoError(t, err)
	assert.Equal(t, PortraitVectorDim, summary.TasteVector.Dim())
	assert.InDeltaSlice(t, wantVector, summary.TasteVector, 1e-9)

	// Top five wines by rating, highest first; W1 falls off.
	assert.Len(t, summary.TopWines, 5)
	assert.Equal(t, "W2", summary.TopWines[0].Name)
	assert.Equal(t, "W4", summary.TopWines[1].Name)
	assert.Equal(t, "W5", summary.TopWines[2].Name)
	assert.Equal(t, "W6", summary.TopWines[3].Name)
	assert.Equal(t, "W3", summary.TopWines[4].Name)
}

func TestTastePortrait_Summary_NoRatings(t *testing.T) {
	_, err := TastePortrait{UserID: uuid.New()}.Summary(2026)
	assert.Error(t, err)
	assert.IsType(t, &ValidationErr{}, err)
}
