// Package retrieval ranks embedded menu products against a query
// vector. The linear index scans candidates sequentially; an
// approximate-nearest-neighbor index can be dropped in behind the same
// interface if the catalog ever outgrows the scan.
package retrieval

import (
	"math"
	"sort"

	"github.com/cartamenu/carta-rag/internal/database/dbtypes"
)

// Candidate is a product eligible for ranking. Callers only submit
// candidates that actually have an embedding.
type Candidate struct {
	ID     uint
	Vector dbtypes.Vector
}

// Match is one ranked candidate. Distance is cosine distance
// (1 - cosine similarity): lower means more similar.
type Match struct {
	ID       uint
	Distance float64
}

// Index ranks candidates by similarity to a query vector.
type Index interface {
	// Search returns up to topK matches ordered by ascending distance.
	// Ties keep input order. An empty candidate set yields an empty,
	// non-nil result.
	Search(query dbtypes.Vector, candidates []Candidate, topK int) []Match
}

type linearIndex struct{}

// NewLinearIndex returns the sequential-scan index.
func NewLinearIndex() Index {
	return linearIndex{}
}

func (linearIndex) Search(query dbtypes.Vector, candidates []Candidate, topK int) []Match {
	matches := make([]Match, 0, len(candidates))
	if len(query) == 0 || topK <= 0 {
		return matches
	}
	for _, c := range candidates {
		// Candidates with a different dimensionality (e.g. embedded by a
		// previously configured provider) are silently skipped, never an error.
		if len(c.Vector) != len(query) {
			continue
		}
		matches = append(matches, Match{
			ID:       c.ID,
			Distance: 1 - CosineSimilarity(query, c.Vector),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// CosineSimilarity computes the cosine of the angle between two vectors
// of equal length. Zero-magnitude input yields 0.
func CosineSimilarity(a, b dbtypes.Vector) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
