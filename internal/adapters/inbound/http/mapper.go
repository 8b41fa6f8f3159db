package http

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vinoclub/wineclub-backend/internal/domain"
)

// RecommendationsReq is the request body of POST /api/recommendations.
type RecommendationsReq struct {
	UserID  string          `json:"user_id"`
	Filters *FiltersReq     `json:"filters,omitempty"`
	Context *UserContextReq `json:"context,omitempty"`
}

// FiltersReq narrows the candidate wine set. PriceRange is a [min, max] pair.
type FiltersReq struct {
	Region     *string   `json:"region,omitempty"`
	Style      *string   `json:"style,omitempty"`
	PriceRange []float64 `json:"priceRange,omitempty"`
}

// UserContextReq carries an inline preference signal, replacing the stored
// profile for this request.
type UserContextReq struct {
	Ratings     []RatingReq     `json:"ratings,omitempty"`
	Preferences *PreferencesReq `json:"preferences,omitempty"`
}

// RatingReq is one historical rating inside an inline context.
type RatingReq struct {
	WineID    string  `json:"wine_id"`
	Region    string  `json:"region"`
	Style     string  `json:"style"`
	Rating    float64 `json:"rating"`
	Review    string  `json:"review,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// PreferencesReq carries precomputed aggregate preference fields.
type PreferencesReq struct {
	FavoriteRegions []string `json:"favorite_regions,omitempty"`
	FavoriteStyles  []string `json:"favorite_styles,omitempty"`
	AverageRating   float64  `json:"average_rating,omitempty"`
}

// Wine is the catalog entry representation served by the API.
type Wine struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Producer    string         `json:"producer,omitempty"`
	Region      string         `json:"region"`
	SubRegion   string         `json:"sub_region,omitempty"`
	Country     string         `json:"country,omitempty"`
	Varietal    string         `json:"varietal,omitempty"`
	Vintage     int            `json:"vintage,omitempty"`
	Price       float64        `json:"price"`
	Style       string         `json:"style"`
	ImagePath   string         `json:"image_path,omitempty"`
	AlcoholPerc float64        `json:"alcohol_percentage,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// RecommendationsResp is the response body of POST /api/recommendations.
type RecommendationsResp struct {
	Wines  []Wine             `json:"wines"`
	Scores map[string]float64 `json:"scores"`
}

// SavedRecommendation is one precomputed recommendation with its score.
type SavedRecommendation struct {
	Wine  Wine    `json:"wine"`
	Score float64 `json:"score"`
}

// SavedRecommendationsResp is the response body of GET /api/recommendations/{user_id}.
type SavedRecommendationsResp struct {
	Recommendations []SavedRecommendation `json:"recommendations"`
	LastUpdated     *time.Time            `json:"last_updated,omitempty"`
}

func toWine(w domain.WineRecord) Wine {
	return Wine{
		ID:          w.ID.String(),
		Name:        w.Name,
		Producer:    w.Producer,
		Region:      w.Region,
		SubRegion:   w.SubRegion,
		Country:     w.Country,
		Varietal:    w.Varietal,
		Vintage:     w.Vintage,
		Price:       w.Price,
		Style:       w.Style,
		ImagePath:   w.ImagePath,
		AlcoholPerc: w.AlcoholPerc,
		Metadata:    w.Metadata,
	}
}

// toUserProfile converts an inline request context into a domain profile.
func toUserProfile(userID uuid.UUID, req UserContextReq) (domain.UserProfile, error) {
	profile := domain.UserProfile{ID: userID}

	for _, r := range req.Ratings {
		wineID, err := uuid.Parse(r.WineID)
		if err != nil {
			return domain.UserProfile{}, domain.NewValidationErr(fmt.Sprintf("invalid wine_id %q in context ratings", r.WineID))
		}
		createdAt, err := domain.ParseFlexibleTime(r.CreatedAt)
		if err != nil {
			return domain.UserProfile{}, err
		}
		profile.Ratings = append(profile.Ratings, domain.RatingEntry{
			WineID:    wineID,
			Region:    r.Region,
			Style:     r.Style,
			Rating:    r.Rating,
			Review:    r.Review,
			CreatedAt: createdAt,
		})
	}

	if req.Preferences != nil {
		profile.FavoriteRegions = req.Preferences.FavoriteRegions
		profile.FavoriteStyles = req.Preferences.FavoriteStyles
		profile.AverageRating = req.Preferences.AverageRating
	}
	return profile, nil
}
