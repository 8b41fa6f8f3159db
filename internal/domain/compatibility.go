package domain

import (
	"fmt"

	"github.com/vinoclub/wineclub-backend/internal/common"
)

// theoryBonusWeight scales the theory vector's contribution to the raw score.
const theoryBonusWeight = 0.5

// CompatibilityResult pairs a wine with its score in [0,100]. It lives for
// one pipeline invocation and is never persisted.
type CompatibilityResult struct {
	Wine  WineRecord
	Score float64
}

// ScoreCompatibility computes the bounded compatibility score between a user
// vector and a wine vector, with an optional global theory vector as a
// secondary signal.
//
// An empty wine or theory vector contributes zero similarity; that is the
// graceful-degradation path for unresolved embeddings. A non-empty vector of
// the wrong dimensionality is a DimensionErr: the two similarity spaces must
// never be mixed. Non-finite inputs are rejected.
func ScoreCompatibility(user, wine, theory Vector) (float64, error) {
	if user.IsEmpty() {
		return 0, NewValidationErr("user vector is empty")
	}
	if !common.IsFinite(user) || !common.IsFinite(wine) || !common.IsFinite(theory) {
		return 0, NewValidationErr("vectors must contain only finite numbers")
	}

	base, err := similarityOrZero(user, wine, "wine")
	if err != nil {
		return 0, err
	}

	var bonus float64
	if !theory.IsEmpty() {
		theorySim, err := similarityOrZero(user, theory, "theory")
		if err != nil {
			return 0, err
		}
		bonus = theoryBonusWeight * theorySim
	}

	return common.Clamp((base+bonus)*100, 0, 100), nil
}

// AdjustForHistory boosts a score by the user's own historical rating of the
// wine, normalized to [0,1], re-clamping to the score ceiling. A wine never
// rated (adjustment 0) keeps its base score.
func AdjustForHistory(score, adjustment float64) float64 {
	return common.Clamp(score*(1+adjustment), 0, 100)
}

// similarityOrZero is cosine similarity with the degradation policy applied:
// empty candidate vectors score 0, dimensional mismatches fail loudly.
func similarityOrZero(user, candidate Vector, kind string) (float64, error) {
	if candidate.IsEmpty() {
		return 0, nil
	}
	if candidate.Dim() != user.Dim() {
		return 0, NewDimensionErr(fmt.Sprintf(
			"%s vector has %d dimensions, user vector has %d", kind, candidate.Dim(), user.Dim(),
		))
	}
	similarity, _ := common.CosineSimilarity(user, candidate)
	return similarity, nil
}
