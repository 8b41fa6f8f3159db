package domain

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/vinoclub/wineclub-backend/internal/common"
	"go.yaml.in/yaml/v3"
)

// PortraitVectorDim is the dimensionality of the per-rating portrait vector
// used by the batch recommendation refresh: country, region, style, vintage,
// alcohol, price, rating.
const PortraitVectorDim = 7

// Normalization ranges for the numeric portrait dimensions.
const (
	portraitVintageFloor = 1900
	portraitAlcoholMin   = 8
	portraitAlcoholMax   = 20
	portraitPriceMin     = 10
	portraitPriceMax     = 500
)

// Defaults applied when a rated wine is missing catalog attributes.
const (
	portraitDefaultAlcohol = 13.5
	portraitDefaultPrice   = 50
)

//go:embed tastedata/groups.yaml
var tasteGroupsYAML []byte

type tasteGroupTables struct {
	RegionGroups     map[string][]string           `yaml:"region_groups"`
	RegionSimilarity map[string]map[string]float64 `yaml:"region_similarity"`
	StyleGroups      map[string][]string           `yaml:"style_groups"`
	StyleSimilarity  map[string]map[string]float64 `yaml:"style_similarity"`
}

// groupIndex answers "which group does this name belong to" plus the
// between-group similarity, with 0.5 for any pair it has no opinion on.
type groupIndex struct {
	groupOf    map[string]string
	similarity map[string]map[string]float64
}

const ungroupedSimilarity = 0.5

var (
	regionGroups groupIndex
	styleGroups  groupIndex
)

func init() {
	var tables tasteGroupTables
	if err := yaml.Unmarshal(tasteGroupsYAML, &tables); err != nil {
		panic(fmt.Sprintf("invalid taste group tables: %v", err))
	}
	regionGroups = newGroupIndex(tables.RegionGroups, tables.RegionSimilarity)
	styleGroups = newGroupIndex(tables.StyleGroups, tables.StyleSimilarity)
}

func newGroupIndex(groups map[string][]string, similarity map[string]map[string]float64) groupIndex {
	idx := groupIndex{groupOf: map[string]string{}, similarity: similarity}
	for group, members := range groups {
		for _, member := range members {
			idx.groupOf[member] = group
		}
	}
	return idx
}

// score returns the similarity between two names based on their groups.
// Identical names are always 1.0; names outside any group score the fallback.
func (g groupIndex) score(a, b string) float64 {
	if a == b && a != "" {
		return 1.0
	}
	groupA, okA := g.groupOf[a]
	groupB, okB := g.groupOf[b]
	if !okA || !okB {
		return ungroupedSimilarity
	}
	if row, ok := g.similarity[groupA]; ok {
		if s, ok := row[groupB]; ok {
			return s
		}
	}
	return ungroupedSimilarity
}

// RegionSimilarity scores how close two wine regions are, via group membership.
func RegionSimilarity(a, b string) float64 {
	return regionGroups.score(a, b)
}

// StyleSimilarity scores how close two wine styles are, via group membership.
func StyleSimilarity(a, b string) float64 {
	return styleGroups.score(a, b)
}

// PortraitRating is one rated wine enriched with the catalog attributes the
// portrait vector needs.
type PortraitRating struct {
	WineID      uuid.UUID
	Name        string
	Country     string
	Region      string
	Style       string
	Varietal    string
	Vintage     int
	AlcoholPerc float64
	Price       float64
	Rating      float64
	Review      string
}

// TastePortrait is one user's enriched rating history plus the dominant
// attributes derived from it, the input to the batch recommendation refresh.
type TastePortrait struct {
	UserID         uuid.UUID
	PrimaryCountry string
	PrimaryRegion  string
	PrimaryStyle   string
	Ratings        []PortraitRating
}

// HasRatings reports whether the portrait carries any rated wines.
func (p TastePortrait) HasRatings() bool {
	return len(p.Ratings) > 0
}

// normalizeVintage maps a vintage year onto [0, 1] between the floor year and
// the current year. Unknown vintages default to last year's.
func normalizeVintage(vintage, currentYear int) float64 {
	if vintage == 0 {
		vintage = currentYear - 1
	}
	span := float64(currentYear - portraitVintageFloor)
	if span <= 0 {
		return 1
	}
	return common.Clamp(float64(vintage-portraitVintageFloor)/span, 0, 1)
}

func normalizeAlcohol(perc float64) float64 {
	if perc == 0 {
		perc = portraitDefaultAlcohol
	}
	return common.Clamp((perc-portraitAlcoholMin)/(portraitAlcoholMax-portraitAlcoholMin), 0, 1)
}

func normalizePrice(price float64) float64 {
	if price == 0 {
		price = portraitDefaultPrice
	}
	return common.Clamp((price-portraitPriceMin)/(portraitPriceMax-portraitPriceMin), 0, 1)
}

// ratingVector maps one rated wine onto the portrait space, scoring its
// country, region and style against the portrait's dominant attributes.
func (p TastePortrait) ratingVector(r PortraitRating, currentYear int) Vector {
	country := 0.8
	if r.Country != "" && r.Country == p.PrimaryCountry {
		country = 1.0
	}
	return Vector{
		country,
		RegionSimilarity(r.Region, p.PrimaryRegion),
		StyleSimilarity(r.Style, p.PrimaryStyle),
		normalizeVintage(r.Vintage, currentYear),
		normalizeAlcohol(r.AlcoholPerc),
		normalizePrice(r.Price),
		r.Rating / 100,
	}
}

// ProfileVector averages the per-rating portrait vectors into one
// PortraitVectorDim summary of the user's taste.
func (p TastePortrait) ProfileVector(currentYear int) (Vector, error) {
	if !p.HasRatings() {
		return nil, NewValidationErr("taste portrait has no ratings")
	}
	sums := make(Vector, PortraitVectorDim)
	for _, r := range p.Ratings {
		if r.Rating < 0 || r.Rating > 100 {
			return nil, NewValidationErr(fmt.Sprintf("rating %.2f for wine %s is outside the 0-100 scale", r.Rating, r.WineID))
		}
		v := p.ratingVector(r, currentYear)
		for i := range sums {
			sums[i] += v[i]
		}
	}
	for i := range sums {
		sums[i] /= float64(len(p.Ratings))
	}
	return sums, nil
}

// PortraitSummary is the textual rendition of a portrait handed to the
// semantic encoder. Field order matters for a stable rendering.
type PortraitSummary struct {
	PrimaryCountry string                `toon:"primary_country"`
	PrimaryRegion  string                `toon:"primary_region"`
	PrimaryStyle   string                `toon:"primary_style"`
	AverageRating  float64               `toon:"average_rating"`
	TasteVector    Vector                `toon:"taste_vector"`
	TopWines       []PortraitSummaryWine `toon:"top_wines"`
}

// PortraitSummaryWine is one highly rated wine inside a PortraitSummary.
type PortraitSummaryWine struct {
	Name     string  `toon:"name"`
	Region   string  `toon:"region"`
	Style    string  `toon:"style"`
	Varietal string  `toon:"varietal,omitempty"`
	Vintage  int     `toon:"vintage,omitempty"`
	Rating   float64 `toon:"rating"`
}

const summaryTopWines = 5

// Summary condenses the portrait into its dominant attributes, the averaged
// taste vector and the highest-rated wines, ready for rendering into encoder
// input.
func (p TastePortrait) Summary(currentYear int) (PortraitSummary, error) {
	tasteVector, err := p.ProfileVector(currentYear)
	if err != nil {
		return PortraitSummary{}, err
	}

	ranked := make([]PortraitRating, len(p.Ratings))
	copy(ranked, p.Ratings)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating > ranked[j].Rating
	})
	if len(ranked) > summaryTopWines {
		ranked = ranked[:summaryTopWines]
	}

	summary := PortraitSummary{
		PrimaryCountry: p.PrimaryCountry,
		PrimaryRegion:  p.PrimaryRegion,
		PrimaryStyle:   p.PrimaryStyle,
		TasteVector:    tasteVector,
	}
	var ratingSum float64
	for _, r := range p.Ratings {
		ratingSum += r.Rating
	}
	summary.AverageRating = ratingSum / float64(len(p.Ratings))

	for _, r := range ranked {
		summary.TopWines = append(summary.TopWines, PortraitSummaryWine{
			Name:     r.Name,
			Region:   r.Region,
			Style:    r.Style,
			Varietal: r.Varietal,
			Vintage:  r.Vintage,
			Rating:   r.Rating,
		})
	}
	return summary, nil
}
