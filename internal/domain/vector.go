package domain

// Vector is a dense numeric vector in one of the two similarity spaces the
// system maintains. The two spaces are never compared with each other:
//
//   - the curated taste space (TasteVectorDim), built from rating history or
//     precomputed preferences and matched against curated wine vectors;
//   - the embedding space (EmbeddingVectorDim), produced by the semantic
//     encoder and matched against externally computed wine embeddings.
//
// An empty Vector means "unresolved" and scores as zero similarity.
type Vector []float64

const (
	// TasteVectorDim is the fixed dimensionality of the curated taste space:
	// three region weights, two style weights, and the normalized mean rating.
	TasteVectorDim = 6

	// EmbeddingVectorDim is the fixed dimensionality of the embedding space.
	EmbeddingVectorDim = 768
)

// Dim returns the vector's dimensionality.
func (v Vector) Dim() int {
	return len(v)
}

// IsEmpty reports whether the vector is unresolved.
func (v Vector) IsEmpty() bool {
	return len(v) == 0
}
