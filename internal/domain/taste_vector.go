package domain

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/vinoclub/wineclub-backend/internal/common"
	"go.yaml.in/yaml/v3"
)

const (
	tasteTopRegions = 3
	tasteTopStyles  = 2

	// otherWeightKey is the fallback entry of each weight table.
	otherWeightKey = "Other"
)

//go:embed tastedata/weights.yaml
var tasteWeightsYAML []byte

type tasteWeightTables struct {
	Regions map[string]float64 `yaml:"regions"`
	Styles  map[string]float64 `yaml:"styles"`
}

var tasteWeights tasteWeightTables

func init() {
	if err := yaml.Unmarshal(tasteWeightsYAML, &tasteWeights); err != nil {
		panic(fmt.Sprintf("invalid taste weight tables: %v", err))
	}
}

// RegionWeight returns the curated weight for a region name.
func RegionWeight(name string) float64 {
	if w, ok := tasteWeights.Regions[name]; ok {
		return w
	}
	return tasteWeights.Regions[otherWeightKey]
}

// StyleWeight returns the curated weight for a style name.
func StyleWeight(name string) float64 {
	if w, ok := tasteWeights.Styles[name]; ok {
		return w
	}
	return tasteWeights.Styles[otherWeightKey]
}

// SentimentAnalyzer scores free text into a compound polarity in [-1, 1].
// Injected so taste-vector construction can be tested with a stub.
type SentimentAnalyzer interface {
	Score(text string) float64
}

// TasteVectorBuilder turns a user profile into a taste-space vector.
// Two strategies exist, selected by which signal the profile carries.
type TasteVectorBuilder interface {
	Build(profile UserProfile) (Vector, error)
}

// RatingHistoryBuilder derives the taste vector from the raw rating history,
// damping each rating by the review's sentiment before aggregation.
type RatingHistoryBuilder struct {
	sentiment SentimentAnalyzer
}

// NewRatingHistoryBuilder creates a RatingHistoryBuilder.
func NewRatingHistoryBuilder(sentiment SentimentAnalyzer) RatingHistoryBuilder {
	return RatingHistoryBuilder{sentiment: sentiment}
}

// Build aggregates sentiment-weighted rating sums per region and per style,
// keeps the top three regions and top two styles, maps them through the
// curated weight tables and appends the normalized mean rating.
//
// The result must land exactly on TasteVectorDim; a shorter vector means the
// history lacks distinct regions or styles and is surfaced as a
// DimensionErr rather than coerced.
func (b RatingHistoryBuilder) Build(profile UserProfile) (Vector, error) {
	if !profile.HasRatings() {
		return nil, NewValidationErr("rating history is required to build a taste vector")
	}

	regions := newWeightedTally()
	styles := newWeightedTally()
	var ratingSum float64

	for _, entry := range profile.Ratings {
		if err := entry.Validate(); err != nil {
			return nil, err
		}

		multiplier := common.Clamp(b.sentiment.Score(entry.Review)+1, 0.8, 1.2)
		weighted := entry.Rating * multiplier

		regions.add(entry.Region, weighted)
		styles.add(entry.Style, weighted)
		ratingSum += entry.Rating
	}

	vector := Vector{}
	for _, region := range regions.top(tasteTopRegions) {
		vector = append(vector, RegionWeight(region))
	}
	for _, style := range styles.top(tasteTopStyles) {
		vector = append(vector, StyleWeight(style))
	}
	vector = append(vector, ratingSum/float64(len(profile.Ratings))/100)

	if vector.Dim() != TasteVectorDim {
		return nil, NewDimensionErr(fmt.Sprintf(
			"taste vector has %d dimensions, expected %d: rating history needs at least %d distinct regions and %d distinct styles",
			vector.Dim(), TasteVectorDim, tasteTopRegions, tasteTopStyles,
		))
	}
	return vector, nil
}

// PreferenceBuilder derives the taste vector directly from the precomputed
// favorite fields, without touching raw ratings or sentiment. Missing
// favorites pad with the fallback weight so the taste space stays closed.
type PreferenceBuilder struct{}

// NewPreferenceBuilder creates a PreferenceBuilder.
func NewPreferenceBuilder() PreferenceBuilder {
	return PreferenceBuilder{}
}

// Build maps the first three favorite regions and first two favorite styles
// through the weight tables and appends the normalized average rating.
func (b PreferenceBuilder) Build(profile UserProfile) (Vector, error) {
	if !profile.HasPreferences() {
		return nil, NewValidationErr("precomputed preferences are required to build a taste vector")
	}
	if profile.AverageRating < 0 || profile.AverageRating > 100 {
		return nil, NewValidationErr(fmt.Sprintf("average rating %.2f is outside the 0-100 scale", profile.AverageRating))
	}

	vector := Vector{}
	for i := 0; i < tasteTopRegions; i++ {
		name := otherWeightKey
		if i < len(profile.FavoriteRegions) {
			name = profile.FavoriteRegions[i]
		}
		vector = append(vector, RegionWeight(name))
	}
	for i := 0; i < tasteTopStyles; i++ {
		name := otherWeightKey
		if i < len(profile.FavoriteStyles) {
			name = profile.FavoriteStyles[i]
		}
		vector = append(vector, StyleWeight(name))
	}
	vector = append(vector, profile.AverageRating/100)

	return vector, nil
}

// weightedTally accumulates weighted sums per key while remembering the
// first-encountered order, so top() can break ties deterministically.
type weightedTally struct {
	keys []string
	sums map[string]float64
}

func newWeightedTally() *weightedTally {
	return &weightedTally{sums: map[string]float64{}}
}

func (t *weightedTally) add(key string, value float64) {
	if _, seen := t.sums[key]; !seen {
		t.keys = append(t.keys, key)
	}
	t.sums[key] += value
}

// top returns up to n keys ordered by accumulated sum descending, ties kept
// in first-encountered order.
func (t *weightedTally) top(n int) []string {
	ranked := make([]string, len(t.keys))
	copy(ranked, t.keys)
	sort.SliceStable(ranked, func(i, j int) bool {
		return t.sums[ranked[i]] > t.sums[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
