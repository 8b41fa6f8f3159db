package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/vinoclub/wineclub-backend/internal/usecases"
)

// Recommendations handles POST /api/recommendations: it runs the on-demand
// scoring pipeline and returns the ranked wines with their score map.
func (api WineClubServer) Recommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, ErrorResp{Error: "Method not allowed"})
		return
	}

	var req RecommendationsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrorResp{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, ErrorResp{Error: "user_id is required"})
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrorResp{Error: fmt.Sprintf("invalid user_id: %q", req.UserID)})
		return
	}

	opts, err := toPipelineOptions(userID, req)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrorResp{Error: err.Error()})
		return
	}

	results, err := api.RecommendWinesUseCase.Execute(r.Context(), userID, opts...)
	if err != nil {
		api.Logger.Printf("Error generating recommendations for user %s: %v", userID, err)
		status := toStatusCode(err)
		if status == http.StatusInternalServerError {
			respondError(w, status, ErrorResp{
				Error:   "Failed to generate recommendations",
				Details: err.Error(),
			})
			return
		}
		respondError(w, status, ErrorResp{Error: err.Error()})
		return
	}

	resp := RecommendationsResp{
		Wines:  []Wine{},
		Scores: map[string]float64{},
	}
	for _, result := range results {
		resp.Wines = append(resp.Wines, toWine(result.Wine))
		resp.Scores[result.Wine.ID.String()] = result.Score
	}
	respondJSON(w, http.StatusOK, resp)
}

// toPipelineOptions converts the request filters and inline context into
// pipeline options.
func toPipelineOptions(userID uuid.UUID, req RecommendationsReq) ([]usecases.RecommendWinesOptions, error) {
	var opts []usecases.RecommendWinesOptions

	if req.Filters != nil {
		if req.Filters.Region != nil {
			opts = append(opts, usecases.WithRegion(*req.Filters.Region))
		}
		if req.Filters.Style != nil {
			opts = append(opts, usecases.WithStyle(*req.Filters.Style))
		}
		if len(req.Filters.PriceRange) > 0 {
			if len(req.Filters.PriceRange) != 2 {
				return nil, fmt.Errorf("priceRange must be a [min, max] pair, got %d values", len(req.Filters.PriceRange))
			}
			opts = append(opts, usecases.WithPriceRange(req.Filters.PriceRange[0], req.Filters.PriceRange[1]))
		}
	}

	if req.Context != nil {
		profile, err := toUserProfile(userID, *req.Context)
		if err != nil {
			return nil, err
		}
		opts = append(opts, usecases.WithProfileContext(profile))
	}
	return opts, nil
}

// SavedRecommendations handles GET /api/recommendations/{user_id}: it serves
// the precomputed recommendations written by the batch refresh.
func (api WineClubServer) SavedRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrorResp{Error: fmt.Sprintf("invalid user_id: %q", r.PathValue("user_id"))})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrorResp{Error: fmt.Sprintf("invalid limit: %q", raw)})
			return
		}
	}

	recs, err := api.ListSavedUseCase.Query(r.Context(), userID, limit)
	if err != nil {
		api.Logger.Printf("Error listing saved recommendations for user %s: %v", userID, err)
		respondError(w, toStatusCode(err), ErrorResp{
			Error:   "Failed to load recommendations",
			Details: err.Error(),
		})
		return
	}

	resp := SavedRecommendationsResp{Recommendations: []SavedRecommendation{}}
	for _, rec := range recs {
		resp.Recommendations = append(resp.Recommendations, SavedRecommendation{
			Wine:  toWine(rec.Wine),
			Score: rec.Score,
		})
		if resp.LastUpdated == nil || rec.UpdatedAt.After(*resp.LastUpdated) {
			updatedAt := rec.UpdatedAt
			resp.LastUpdated = &updatedAt
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
