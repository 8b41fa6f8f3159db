package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := map[string]struct {
		vectorA     []float64
		vectorB     []float64
		wantScore   float64
		wantSuccess bool
	}{
		"identical-vectors-return-1.0": {
			vectorA:     []float64{1.0, 2.0, 3.0},
			vectorB:     []float64{1.0, 2.0, 3.0},
			wantScore:   1.0,
			wantSuccess: true,
		},
		"opposite-vectors-return-negative-1.0": {
			vectorA:     []float64{1.0, 2.0, 3.0},
			vectorB:     []float64{-1.0, -2.0, -3.0},
			wantScore:   -1.0,
			wantSuccess: true,
		},
		"orthogonal-vectors-return-0.0": {
			vectorA:     []float64{1.0, 0.0},
			vectorB:     []float64{0.0, 1.0},
			wantScore:   0.0,
			wantSuccess: true,
		},
		"scaled-vectors-return-1.0": {
			vectorA:     []float64{1.0, 2.0, 3.0},
			vectorB:     []float64{2.0, 4.0, 6.0},
			wantScore:   1.0,
			wantSuccess: true,
		},
		"partially-similar-vectors": {
			vectorA:     []float64{1.0, 1.0, 0.0},
			vectorB:     []float64{1.0, 0.0, 1.0},
			wantScore:   0.5,
			wantSuccess: true,
		},
		"empty-vector-returns-false": {
			vectorA:     []float64{},
			vectorB:     []float64{1.0, 2.0, 3.0},
			wantScore:   0,
			wantSuccess: false,
		},
		"different-length-vectors-returns-false": {
			vectorA:     []float64{1.0, 2.0},
			vectorB:     []float64{1.0, 2.0, 3.0},
			wantScore:   0,
			wantSuccess: false,
		},
		"zero-vector-returns-false": {
			vectorA:     []float64{0.0, 0.0, 0.0},
			vectorB:     []float64{1.0, 2.0, 3.0},
			wantScore:   0,
			wantSuccess: false,
		},
		"taste-space-weights": {
			vectorA:     []float64{0.95, 0.93, 0.91, 0.90, 0.84, 0.80},
			vectorB:     []float64{0.95, 0.93, 0.91, 0.90, 0.84, 0.80},
			wantScore:   1.0,
			wantSuccess: true,
		},
		"mixed-positive-and-negative": {
			vectorA:     []float64{1.0, -1.0, 2.0},
			vectorB:     []float64{-1.0, 1.0, -2.0},
			wantScore:   -1.0,
			wantSuccess: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			score, success := CosineSimilarity(tt.vectorA, tt.vectorB)

			assert.Equal(t, tt.wantSuccess, success)
			if tt.wantSuccess {
				assert.InDelta(t, tt.wantScore, score, 0.0001)
			} else {
				assert.Equal(t, tt.wantScore, score,
					"Failed case should return 0 as score")
			}
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.8, Clamp(0.5, 0.8, 1.2))
	assert.Equal(t, 1.2, Clamp(7.0, 0.8, 1.2))
	assert.Equal(t, 1.0, Clamp(1.0, 0.8, 1.2))
	assert.Equal(t, 0.0, Clamp(-3.0, 0.0, 100.0))
	assert.Equal(t, 100.0, Clamp(140.0, 0.0, 100.0))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite([]float64{0, 1.5, -2.3}))
	assert.True(t, IsFinite(nil))
	assert.False(t, IsFinite([]float64{1, math.NaN()}))
	assert.False(t, IsFinite([]float64{math.Inf(1)}))
	assert.False(t, IsFinite([]float64{math.Inf(-1), 0}))
}
