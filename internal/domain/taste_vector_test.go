package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// stubSentiment returns a fixed compound polarity per review text.
type stubSentiment struct {
	scores map[string]float64
}

func (s stubSentiment) Score(text string) float64 {
	return s.scores[text]
}

func TestRegionWeight(t *testing.T) {
	assert.Equal(t, 0.95, RegionWeight("Bordeaux"))
	assert.Equal(t, 0.50, RegionWeight("Atlantis"))
	assert.Equal(t, 0.50, RegionWeight(""))
}

func TestStyleWeight(t *testing.T) {
	assert.Equal(t, 0.90, StyleWeight("Red"))
	assert.Equal(t, 0.45, StyleWeight("Blue"))
}

func TestRatingHistoryBuilder_Build(t *testing.T) {
	rate := func(region, style string, rating float64, review string) RatingEntry {
		return RatingEntry{WineID: uuid.New(), Region: region, Style: style, Rating: rating, Review: review}
	}

	tests := map[string]struct {
		ratings   []RatingEntry
		sentiment map[string]float64
		want      Vector
		wantErr   string
	}{
		"three-regions-two-styles": {
			ratings: []RatingEntry{
				rate("Bordeaux", "Red", 90, ""),
				rate("Burgundy", "Red", 80, ""),
				rate("Tuscany", "White", 70, ""),
			},
			want: Vector{0.95, 0.93, 0.91, 0.90, 0.84, 0.80},
		},
		"extra-regions-fall-off": {
			ratings: []RatingEntry{
				rate("Bordeaux", "Red", 95, ""),
				rate("Burgundy", "Red", 90, ""),
				rate("Tuscany", "White", 85, ""),
				rate("Rioja", "Sparkling", 10, ""),
				rate("Mosel", "White", 5, ""),
			},
			// Rioja and Mosel score below the top three; Sparkling below
			// the top two. Mean stays over all five entries.
			want: Vector{0.95, 0.93, 0.91, 0.90, 0.84, (95 + 90 + 85 + 10 + 5) / 5.0 / 100},
		},
		"ties-keep-first-encountered-order": {
			ratings: []RatingEntry{
				rate("Mendoza", "Red", 80, ""),
				rate("Rioja", "White", 80, ""),
				rate("Mosel", "Red", 80, ""),
			},
			want: Vector{0.73, 0.85, 0.81, 0.90, 0.84, 0.80},
		},
		"positive-sentiment-boosts-region-ranking": {
			ratings: []RatingEntry{
				rate("Bordeaux", "Red", 80, "meh"),
				rate("Burgundy", "Red", 80, "absolutely loved it"),
				rate("Tuscany", "White", 80, "meh"),
			},
			sentiment: map[string]float64{"absolutely loved it": 0.9, "meh": 0.0},
			// Burgundy's damped sum (80*1.2) outranks the others (80*1.0).
			want: Vector{0.93, 0.95, 0.91, 0.90, 0.84, 0.80},
		},
		"sentiment-multiplier-is-clamped": {
			ratings: []RatingEntry{
				rate("Bordeaux", "Red", 80, "vile"),
				rate("Burgundy", "Red", 79, "fine"),
				rate("Tuscany", "White", 50, "fine"),
			},
			// A -1 compound clamps to 0.8, so Bordeaux (80*0.8=64) now
			// ranks below Burgundy (79*1.0).
			sentiment: map[string]float64{"vile": -1.0, "fine": 0.0},
			want:      Vector{0.93, 0.95, 0.91, 0.90, 0.84, (80 + 79 + 50) / 3.0 / 100},
		},
		"unknown-names-use-fallback-weights": {
			ratings: []RatingEntry{
				rate("Moonbase", "Red", 90, ""),
				rate("Bordeaux", "Glow", 80, ""),
				rate("Burgundy", "White", 70, ""),
			},
			want: Vector{0.50, 0.95, 0.93, 0.90, 0.45, 0.80},
		},
		"too-few-regions": {
			ratings: []RatingEntry{
				rate("Bordeaux", "Red", 90, ""),
				rate("Bordeaux", "White", 80, ""),
			},
			wantErr: "taste vector has 5 dimensions, expected 6",
		},
		"too-few-styles": {
			ratings: []RatingEntry{
				rate("Bordeaux", "Red", 90, ""),
				rate("Burgundy", "Red", 80, ""),
				rate("Tuscany", "Red", 70, ""),
			},
			wantErr: "taste vector has 5 dimensions, expected 6",
		},
		"rating-out-of-scale": {
			ratings: []RatingEntry{
				rate("Bordeaux", "Red", 4.5, ""),
				rate("Burgundy", "White", 101, ""),
			},
			wantErr: "outside the 0-100 scale",
		},
		"no-ratings": {
			ratings: nil,
			wantErr: "rating history is required",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			builder := NewRatingHistoryBuilder(stubSentiment{scores: tt.sentiment})
			got, err := builder.Build(UserProfile{ID: uuid.New(), Ratings: tt.ratings})
			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
		})
	}
}

func TestRatingHistoryBuilder_Build_SparseHistoryIsDimensionErr(t *testing.T) {
	builder := NewRatingHistoryBuilder(stubSentiment{})
	_, err := builder.Build(UserProfile{
		ID:      uuid.New(),
		Ratings: []RatingEntry{{WineID: uuid.New(), Region: "Bordeaux", Style: "Red", Rating: 90}},
	})
	assert.Error(t, err)
	assert.IsType(t, &DimensionErr{}, err)
}

func TestPreferenceBuilder_Build(t *testing.T) {
	tests := map[string]struct {
		profile UserProfile
		want    Vector
		wantErr string
	}{
		"full-preferences": {
			profile: UserProfile{
				FavoriteRegions: []string{"Bordeaux", "Burgundy", "Tuscany"},
				FavoriteStyles:  []string{"Red", "White"},
				AverageRating:   88,
			},
			want: Vector{0.95, 0.93, 0.91, 0.90, 0.84, 0.88},
		},
		"missing-favorites-pad-with-fallback": {
			profile: UserProfile{
				FavoriteRegions: []string{"Bordeaux"},
				FavoriteStyles:  []string{"Red"},
				AverageRating:   70,
			},
			want: Vector{0.95, 0.50, 0.50, 0.90, 0.45, 0.70},
		},
		"extra-favorites-are-ignored": {
			profile: UserProfile{
				FavoriteRegions: []string{"Bordeaux", "Burgundy", "Tuscany", "Rioja"},
				FavoriteStyles:  []string{"Red", "White", "Sparkling"},
				AverageRating:   50,
			},
			want: Vector{0.95, 0.93, 0.91, 0.90, 0.84, 0.50},
		},
		"low-average-still-on-100-scale": {
			profile: UserProfile{
				FavoriteRegions: []string{"Bordeaux"},
				AverageRating:   4.7,
			},
			want: Vector{0.95, 0.50, 0.50, 0.45, 0.45, 0.047},
		},
		"average-above-scale": {
			profile: UserProfile{
				FavoriteRegions: []string{"Bordeaux"},
				AverageRating:   470,
			},
			wantErr: "outside the 0-100 scale",
		},
		"no-preferences": {
			profile: UserProfile{AverageRating: 88},
			wantErr: "precomputed preferences are required",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := NewPreferenceBuilder().Build(tt.profile)
			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
			assert.Equal(t, TasteVectorDim, got.Dim())
		})
	}
}
