package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vinoclub/wineclub-backend/internal/domain"
)

const (
	getUserQuery = "SELECT id, favorite_regions, favorite_styles, average_rating FROM users WHERE id = $1"

	listRatingsQuery = "SELECT r.wine_id, w.region, w.style, r.rating, r.review, r.created_at " +
		"FROM wine_ratings_reviews r JOIN wine_inventory w ON w.id = r.wine_id " +
		"WHERE r.user_id = $1 ORDER BY r.created_at DESC"

	listPortraitsQuery = "SELECT r.user_id, r.wine_id, w.name, w.country, w.region, w.style, w.varietal, w.vintage, w.alcohol_percentage, w.price, r.rating, r.review " +
		"FROM wine_ratings_reviews r JOIN wine_inventory w ON w.id = r.wine_id " +
		"ORDER BY r.user_id ASC, r.created_at ASC"
)

var (
	userColumns      = []string{"id", "favorite_regions", "favorite_styles", "average_rating"}
	ratingColumns    = []string{"wine_id", "region", "style", "rating", "review", "created_at"}
	portraitColumns  = []string{"user_id", "wine_id", "name", "country", "region", "style", "varietal", "vintage", "alcohol_percentage", "price", "rating", "review"}
	profileTestTime  = time.Date(2026, 8, 24, 15, 0, 0, 0, time.UTC)
	profileTestUser  = uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	profileTestWine1 = uuid.MustParse("223e4567-e89b-12d3-a456-426614174000")
	profileTestWine2 = uuid.MustParse("323e4567-e89b-12d3-a456-426614174000")
)

func TestUserProfileRepository_GetProfile(t *testing.T) {
	tests := map[string]struct {
		expect    func(sqlmock.Sqlmock)
		wantFound bool
		wantErr   bool
		validate  func(*testing.T, domain.UserProfile)
	}{
		"success-with-ratings-and-preferences": {
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(getUserQuery).
					WithArgs(profileTestUser).
					WillReturnRows(sqlmock.NewRows(userColumns).
						AddRow(profileTestUser, []byte(`["Burgundy","Rioja"]`), []byte(`["Red"]`), 88.5))
				m.ExpectQuery(listRatingsQuery).
					WithArgs(profileTestUser).
					WillReturnRows(sqlmock.NewRows(ratingColumns).
						AddRow(profileTestWine1, "Burgundy", "Red", 92.0, "lovely", profileTestTime).
						AddRow(profileTestWine2, "Rioja", "Red", 85.0, "", profileTestTime.Add(-time.Hour)))
			},
			wantFound: true,
			validate: func(t *testing.T, profile domain.UserProfile) {
				assert.Equal(t, profileTestUser, profile.ID)
				assert.Equal(t, []string{"Burgundy", "Rioja"}, profile.FavoriteRegions)
				assert.Equal(t, []string{"Red"}, profile.FavoriteStyles)
				assert.Equal(t, 88.5, profile.AverageRating)
				assert.Len(t, profile.Ratings, 2)
				assert.Equal(t, profileTestWine1, profile.Ratings[0].WineID)
				assert.Equal(t, "Burgundy", profile.Ratings[0].Region)
				assert.Equal(t, 92.0, profile.Ratings[0].Rating)
			},
		},
		"success-no-ratings": {
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(getUserQuery).
					WithArgs(profileTestUser).
					WillReturnRows(sqlmock.NewRows(userColumns).
						AddRow(profileTestUser, []byte(`["Burgundy"]`), []byte(`[]`), 0.0))
				m.ExpectQuery(listRatingsQuery).
					WithArgs(profileTestUser).
					WillReturnRows(sqlmock.NewRows(ratingColumns))
			},
			wantFound: true,
			validate: func(t *testing.T, profile domain.UserProfile) {
				assert.False(t, profile.HasRatings())
				assert.True(t, profile.HasPreferences())
			},
		},
		"unknown-user": {
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(getUserQuery).
					WithArgs(profileTestUser).
					WillReturnRows(sqlmock.NewRows(userColumns))
			},
			wantFound: false,
		},
		"user-query-error": {
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(getUserQuery).
					WithArgs(profileTestUser).
					WillReturnError(errors.New("db error"))
			},
			wantErr: true,
		},
		"malformed-favorites": {
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(getUserQuery).
					WithArgs(profileTestUser).
					WillReturnRows(sqlmock.NewRows(userColumns).
						AddRow(profileTestUser, []byte(`{invalid`), []byte(`[]`), 0.0))
			},
			wantErr: true,
		},
		"ratings-query-error": {
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(getUserQuery).
					WithArgs(profileTestUser).
					WillReturnRows(sqlmock.NewRows(userColumns).
						AddRow(profileTestUser, []byte(`[]`), []byte(`[]`), 0.0))
				m.ExpectQuery(listRatingsQuery).
					WithArgs(profileTestUser).
					WillReturnError(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			assert.NoError(t, err)
			defer db.Close() // nolint:errcheck

			tt.expect(mock)

			repo := NewUserProfileRepository(db)
			got, found, err := repo.GetProfile(context.Background(), profileTestUser)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantFound, found)
				if tt.validate != nil {
					tt.validate(t, got)
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserProfileRepository_ListTastePortraits(t *testing.T) {
	user2 := uuid.MustParse("423e4567-e89b-12d3-a456-426614174000")

	tests := map[string]struct {
		expect   func(sqlmock.Sqlmock)
		wantErr  bool
		validate func(*testing.T, []domain.TastePortrait)
	}{
		"groups-rows-per-user-and-derives-primaries": {
			expect: func(m sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(portraitColumns).
					AddRow(profileTestUser, profileTestWine1, "Romanée Rouge", "France", "Burgundy", "Red", "Pinot Noir", 2019, 13.0, 85.0, 92.0, "lovely").
					AddRow(profileTestUser, profileTestWine2, "Fleurie", "France", "Beaujolais", "Red", "Gamay", 2021, 12.5, 22.0, 78.0, "").
					AddRow(user2, profileTestWine2, "Fleurie", "France", "Beaujolais", "Red", "Gamay", 2021, 12.5, 22.0, 65.0, "light")
				m.ExpectQuery(listPortraitsQuery).WillReturnRows(rows)
			},
			validate: func(t *testing.T, portraits []domain.TastePortrait) {
				assert.Len(t, portraits, 2)

				first := portraits[0]
				assert.Equal(t, profileTestUser, first.UserID)
				assert.Len(t, first.Ratings, 2)
				assert.Equal(t, "France", first.PrimaryCountry)
				assert.Equal(t, "Burgundy", first.PrimaryRegion) // tie keeps first encountered
				assert.Equal(t, "Red", first.PrimaryStyle)
				assert.Equal(t, "Romanée Rouge", first.Ratings[0].Name)
				assert.Equal(t, 92.0, first.Ratings[0].Rating)

				second := portraits[1]
				assert.Equal(t, user2, second.UserID)
				assert.Len(t, second.Ratings, 1)
				assert.Equal(t, "Beaujolais", second.PrimaryRegion)
			},
		},
		"no-ratings-at-all": {
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(listPortraitsQuery).WillReturnRows(sqlmock.NewRows(portraitColumns))
			},
			validate: func(t *testing.T, portraits []domain.TastePortrait) {
				assert.Empty(t, portraits)
			},
		},
		"db-error": {
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(listPortraitsQuery).WillReturnError(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			assert.NoError(t, err)
			defer db.Close() // nolint:errcheck

			tt.expect(mock)

			repo := NewUserProfileRepository(db)
			got, err := repo.ListTastePortraits(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				tt.validate(t, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDerivePrimaryAttributes_MostFrequentWins(t *testing.T) {
	portrait := domain.TastePortrait{
		Ratings: []domain.PortraitRating{
			{Country: "France", Region: "Burgundy", Style: "Red"},
			{Country: "Italy", Region: "Tuscany", Style: "Red"},
			{Country: "Italy", Region: "Tuscany", Style: "White"},
			{Country: "", Region: "", Style: ""},
		},
	}

	derivePrimaryAttributes(&portrait)

	assert.Equal(t, "Italy", portrait.PrimaryCountry)
	assert.Equal(t, "Tuscany", portrait.PrimaryRegion)
	assert.Equal(t, "Red", portrait.PrimaryStyle)
}
