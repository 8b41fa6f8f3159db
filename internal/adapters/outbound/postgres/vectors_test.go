package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/vinoclub/wineclub-backend/internal/domain"
)

func TestVectorRepository_FetchVectors(t *testing.T) {
	tests := map[string]struct {
		namespace string
		ids       []string
		expect    func(sqlmock.Sqlmock)
		want      map[string]domain.Vector
		wantErr   bool
	}{
		"success": {
			namespace: domain.VectorNamespaceWineMetadata,
			ids:       []string{"wine-1", "wine-2"},
			expect: func(m sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "embedding"}).
					AddRow("wine-1", "[0.5,0.25,1]").
					AddRow("wine-2", "[0,0,0.75]")
				m.ExpectQuery("SELECT id, embedding FROM wine_vectors WHERE namespace = $1 AND id IN ($2,$3) AND embedding IS NOT NULL").
					WithArgs(domain.VectorNamespaceWineMetadata, "wine-1", "wine-2").
					WillReturnRows(rows)
			},
			want: map[string]domain.Vector{
				"wine-1": {0.5, 0.25, 1},
				"wine-2": {0, 0, 0.75},
			},
		},
		"absent-ids-are-missing-not-error": {
			namespace: domain.VectorNamespaceWineMetadata,
			ids:       []string{"wine-1", "wine-unknown"},
			expect: func(m sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "embedding"}).
					AddRow("wine-1", "[1,0]")
				m.ExpectQuery("SELECT id, embedding FROM wine_vectors WHERE namespace = $1 AND id IN ($2,$3) AND embedding IS NOT NULL").
					WithArgs(domain.VectorNamespaceWineMetadata, "wine-1", "wine-unknown").
					WillReturnRows(rows)
			},
			want: map[string]domain.Vector{
				"wine-1": {1, 0},
			},
		},
		"theory-namespace": {
			namespace: domain.VectorNamespaceWineTheory,
			ids:       []string{domain.TheoryVectorID},
			expect: func(m sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "embedding"}).
					AddRow(domain.TheoryVectorID, "[0.9,0.8,0.7,0.6,0.5,0.4]")
				m.ExpectQuery("SELECT id, embedding FROM wine_vectors WHERE namespace = $1 AND id IN ($2) AND embedding IS NOT NULL").
					WithArgs(domain.VectorNamespaceWineTheory, domain.TheoryVectorID).
					WillReturnRows(rows)
			},
			want: map[string]domain.Vector{
				domain.TheoryVectorID: {0.9, 0.8, 0.7, 0.6, 0.5, 0.4},
			},
		},
		"no-ids-skips-the-query": {
			namespace: domain.VectorNamespaceWineMetadata,
			ids:       nil,
			expect:    func(m sqlmock.Sqlmock) {},
			want:      map[string]domain.Vector{},
		},
		"db-error": {
			namespace: domain.VectorNamespaceWineMetadata,
			ids:       []string{"wine-1"},
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("SELECT id, embedding FROM wine_vectors WHERE namespace = $1 AND id IN ($2) AND embedding IS NOT NULL").
					WithArgs(domain.VectorNamespaceWineMetadata, "wine-1").
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

			repo := NewVectorRepository(db)
			got, err := repo.FetchVectors(context.Background(), tt.namespace, tt.ids)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.InDeltaMapValues(t, flattenVectors(tt.want), flattenVectors(got), 1e-6)
				assert.Len(t, got, len(tt.want))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// flattenVectors spreads each vector component into its own key so the float32
// round trip through the vector column type can be compared with a tolerance.
func flattenVectors(vectors map[string]domain.Vector) map[string]float64 {
	flat := map[string]float64{}
	for id, vec := range vectors {
		for i, v := range vec {
			flat[fmt.Sprintf("%s/%d", id, i)] = v
		}
	}
	return flat
}
