package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func treeCand(id, tree string, score float64) *SearchCandidate {
	return &SearchCandidate{ID: id, Tree: tree, Score: score}
}

func TestNormalize_SingleTreeUnchanged(t *testing.T) {
	candidates := []*SearchCandidate{treeCand("a", "docs", 5), treeCand("b", "docs", 2)}
	out := Normalize(candidates)
	require.Len(t, out, 2)
	assert.Equal(t, 5.0, out[0].Score)
	assert.Equal(t, 2.0, out[1].Score)
}

func TestNormalize_MultiTreeScalesEachToItsOwnMax(t *testing.T) {
	candidates := []*SearchCandidate{
		treeCand("a", "docs", 10),
		treeCand("b", "docs", 5),
		treeCand("c", "api", 2),
		treeCand("d", "api", 1),
	}
	out := Normalize(candidates)
	byID := make(map[string]*SearchCandidate, len(out))
	for _, c := range out {
		byID[c.ID] = c
	}
	assert.Equal(t, 1.0, byID["a"].Score)
	assert.Equal(t, 0.5, byID["b"].Score)
	assert.Equal(t, 1.0, byID["c"].Score)
	assert.Equal(t, 0.5, byID["d"].Score)
}

func TestNormalize_ResortsDescendingAfterScaling(t *testing.T) {
	candidates := []*SearchCandidate{
		treeCand("a", "docs", 10),
		treeCand("b", "api", 100),
		treeCand("c", "api", 1),
	}
	out := Normalize(candidates)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Score, out[i].Score)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}
