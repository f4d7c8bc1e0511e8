package retrieval

import (
	"math"
	"testing"

	"github.com/cartamenu/carta-rag/internal/database/dbtypes"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b dbtypes.Vector
		want float64
	}{
		{"identical", dbtypes.Vector{1, 0}, dbtypes.Vector{1, 0}, 1},
		{"orthogonal", dbtypes.Vector{1, 0}, dbtypes.Vector{0, 1}, 0},
		{"opposite", dbtypes.Vector{1, 0}, dbtypes.Vector{-1, 0}, -1},
		{"zero magnitude", dbtypes.Vector{0, 0}, dbtypes.Vector{1, 0}, 0},
	}
	for _, tt := range tests {
		got := CosineSimilarity(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: expected %f, got %f", tt.name, tt.want, got)
		}
	}
}

func TestSearchOrdersByDistance(t *testing.T) {
	query := dbtypes.Vector{1, 0}
	// Distances to the query: ~0.1, ~0.3, 0.2.
	candidates := []Candidate{
		{ID: 1, Vector: dbtypes.Vector{0.9, 0.436}},
		{ID: 2, Vector: dbtypes.Vector{0.7, 0.714}},
		{ID: 3, Vector: dbtypes.Vector{0.8, 0.6}},
	}

	got := NewLinearIndex().Search(query, candidates, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("expected order [1 3], got [%d %d]", got[0].ID, got[1].ID)
	}
	if got[0].Distance >= got[1].Distance {
		t.Errorf("distances must be ascending: %f >= %f", got[0].Distance, got[1].Distance)
	}
}

func TestSearchTiesKeepInputOrder(t *testing.T) {
	query := dbtypes.Vector{1, 0}
	candidates := []Candidate{
		{ID: 7, Vector: dbtypes.Vector{2, 0}},
		{ID: 3, Vector: dbtypes.Vector{5, 0}},
		{ID: 9, Vector: dbtypes.Vector{1, 0}},
	}

	got := NewLinearIndex().Search(query, candidates, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	if got[0].ID != 7 || got[1].ID != 3 || got[2].ID != 9 {
		t.Errorf("ties must keep input order, got [%d %d %d]", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestSearchEmptyCandidates(t *testing.T) {
	got := NewLinearIndex().Search(dbtypes.Vector{1, 0}, nil, 5)
	if got == nil {
		t.Fatal("result must be empty, not nil")
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d matches", len(got))
	}
}

func TestSearchSkipsDimensionMismatch(t *testing.T) {
	query := dbtypes.Vector{1, 0}
	candidates := []Candidate{
		{ID: 1, Vector: dbtypes.Vector{1, 0, 0}},
		{ID: 2, Vector: dbtypes.Vector{1, 0}},
	}

	got := NewLinearIndex().Search(query, candidates, 5)
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("mismatched candidate must be skipped, got %+v", got)
	}
}

func TestSearchTopKLargerThanSet(t *testing.T) {
	query := dbtypes.Vector{1, 0}
	candidates := []Candidate{
		{ID: 1, Vector: dbtypes.Vector{0.99, 0.14}},
		{ID: 2, Vector: dbtypes.Vector{0.1, 0.99}},
	}

	got := NewLinearIndex().Search(query, candidates, 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].ID != 1 {
		t.Errorf("expected closest candidate first, got %d", got[0].ID)
	}
}
