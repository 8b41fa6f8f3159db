package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vinoclub/wineclub-backend/internal/domain"
	"github.com/vinoclub/wineclub-backend/internal/telemetry"
)

// UserProfileRepository implements the domain.UserProfileRepository interface
// using PostgreSQL as the storage backend.
type UserProfileRepository struct {
	sb squirrel.StatementBuilderType
}

// NewUserProfileRepository creates a new instance of UserProfileRepository.
func NewUserProfileRepository(br squirrel.BaseRunner) UserProfileRepository {
	return UserProfileRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// GetProfile retrieves one user's profile with the rating history and the
// precomputed favorite fields. The boolean is false when the user is unknown.
func (pr UserProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (domain.UserProfile, bool, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.String("user_id", userID.String()),
	))
	defer span.End()

	var profile domain.UserProfile
	var favoriteRegions, favoriteStyles []byte
	err := pr.sb.
		Select(
			"id",
			"favorite_regions",
			"favorite_styles",
			"average_rating",
		).
		From("users").
		Where(squirrel.Eq{"id": userID}).
		QueryRowContext(spanCtx).
		Scan(
			&profile.ID,
			&favoriteRegions,
			&favoriteStyles,
			&profile.AverageRating,
		)

	if err == sql.ErrNoRows {
		return domain.UserProfile{}, false, nil
	}
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.UserProfile{}, false, err
	}

	if err := json.Unmarshal(favoriteRegions, &profile.FavoriteRegions); err != nil {
		telemetry.RecordErrorAndStatus(span, err)
		return domain.UserProfile{}, false, fmt.Errorf("failed to unmarshal favorite regions: %w", err)
	}
	if err := json.Unmarshal(favoriteStyles, &profile.FavoriteStyles); err != nil {
		telemetry.RecordErrorAndStatus(span, err)
		return domain.UserProfile{}, false, fmt.Errorf("failed to unmarshal favorite styles: %w", err)
	}

	profile.Ratings, err = pr.listRatings(spanCtx, userID)
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.UserProfile{}, false, err
	}

	return profile, true, nil
}

func (pr UserProfileRepository) listRatings(ctx context.Context, userID uuid.UUID) ([]domain.RatingEntry, error) {
	rows, err := pr.sb.
		Select(
			"r.wine_id",
			"w.region",
			"w.style",
			"r.rating",
			"r.review",
			"r.created_at",
		).
		From("wine_ratings_reviews r").
		Join("wine_inventory w ON w.id = r.wine_id").
		Where(squirrel.Eq{"r.user_id": userID}).
		OrderBy("r.created_at DESC").
		QueryContext(ctx)

	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var ratings []domain.RatingEntry
	for rows.Next() {
		var entry domain.RatingEntry
		err := rows.Scan(
			&entry.WineID,
			&entry.Region,
			&entry.Style,
			&entry.Rating,
			&entry.Review,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ratings, nil
}

// ListTastePortraits retrieves the enriched per-user rating portraits used by
// the batch recommendation refresh. Users without ratings are not included.
func (pr UserProfileRepository) ListTastePortraits(ctx context.Context) ([]domain.TastePortrait, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	rows, err := pr.sb.
		Select(
			"r.user_id",
			"r.wine_id",
			"w.name",
			"w.country",
			"w.region",
			"w.style",
			"w.varietal",
			"w.vintage",
			"w.alcohol_percentage",
			"w.price",
			"r.rating",
			"r.review",
		).
		From("wine_ratings_reviews r").
		Join("wine_inventory w ON w.id = r.wine_id").
		OrderBy("r.user_id ASC", "r.created_at ASC").
		QueryContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var portraits []domain.TastePortrait
	for rows.Next() {
		var userID uuid.UUID
		var rating domain.PortraitRating
		err := rows.Scan(
			&userID,
			&rating.WineID,
			&rating.Name,
			&rating.Country,
			&rating.Region,
			&rating.Style,
			&rating.Varietal,
			&rating.Vintage,
			&rating.AlcoholPerc,
			&rating.Price,
			&rating.Rating,
			&rating.Review,
		)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, err
		}

		if len(portraits) == 0 || portraits[len(portraits)-1].UserID != userID {
			portraits = append(portraits, domain.TastePortrait{UserID: userID})
		}
		last := &portraits[len(portraits)-1]
		last.Ratings = append(last.Ratings, rating)
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	for i := range portraits {
		derivePrimaryAttributes(&portraits[i])
	}

	return portraits, nil
}

// derivePrimaryAttributes fills the portrait's dominant country, region and
// style from its rating history. Ties keep the first encountered value.
func derivePrimaryAttributes(portrait *domain.TastePortrait) {
	portrait.PrimaryCountry = mostFrequent(portrait.Ratings, func(r domain.PortraitRating) string { return r.Country })
	portrait.PrimaryRegion = mostFrequent(portrait.Ratings, func(r domain.PortraitRating) string { return r.Region })
	portrait.PrimaryStyle = mostFrequent(portrait.Ratings, func(r domain.PortraitRating) string { return r.Style })
}

func mostFrequent(ratings []domain.PortraitRating, key func(domain.PortraitRating) string) string {
	counts := map[string]int{}
	best := ""
	for _, r := range ratings {
		k := key(r)
		if k == "" {
			continue
		}
		counts[k]++
		if best == "" || counts[k] > counts[best] {
			best = k
		}
	}
	return best
}

// InitUserProfileRepository is a Symbiont initializer for UserProfileRepository.
type InitUserProfileRepository struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the UserProfileRepository in the dependency container.
func (pr InitUserProfileRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.UserProfileRepository](NewUserProfileRepository(pr.DB))
	return ctx, nil
}
