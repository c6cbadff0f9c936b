package edge

import (
	"testing"

	"github.com/yourusername/puckline/internal/models"
)

func TestRankOrders(t *testing.T) {
	recs := []models.Recommendation{
		{Pick: "thin", Edge: 0.025, Confidence: 0.9},
		{Pick: "big", Edge: 0.08, Confidence: 0.4},
		{Pick: "mid-low-conf", Edge: 0.05, Confidence: 0.3},
		{Pick: "mid-high-conf", Edge: 0.05, Confidence: 0.8},
	}

	got := Rank(recs, 0)

	want := []string{"big", "mid-high-conf", "mid-low-conf", "thin"}
	for i, pick := range want {
		if got[i].Pick != pick {
			t.Errorf("rank %d = %q, want %q", i, got[i].Pick, pick)
		}
	}
}

func TestRankStableOnTies(t *testing.T) {
	// Identical edge and confidence: discovery order decides.
	recs := []models.Recommendation{
		{Pick: "first", Edge: 0.05, Confidence: 0.5},
		{Pick: "second", Edge: 0.05, Confidence: 0.5},
		{Pick: "third", Edge: 0.05, Confidence: 0.5},
	}

	got := Rank(recs, 0)
	for i, pick := range []string{"first", "second", "third"} {
		if got[i].Pick != pick {
			t.Errorf("rank %d = %q, want %q", i, got[i].Pick, pick)
		}
	}
}

func TestRankTruncates(t *testing.T) {
	recs := []models.Recommendation{
		{Pick: "a", Edge: 0.03},
		{Pick: "b", Edge: 0.06},
		{Pick: "c", Edge: 0.09},
	}

	got := Rank(recs, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Pick != "c" || got[1].Pick != "b" {
		t.Errorf("truncated ranking = %q, %q", got[0].Pick, got[1].Pick)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	recs := []models.Recommendation{
		{Pick: "low", Edge: 0.03},
		{Pick: "high", Edge: 0.09},
	}

	Rank(recs, 0)
	if recs[0].Pick != "low" {
		t.Error("input slice reordered")
	}
}
