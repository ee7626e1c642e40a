package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeCandidates_SumsFrequencyKeepsHigherWeight(t *testing.T) {
	pathGroup := []candidateTerm{{Term: "oauth", Original: "oauth", Source: SourcePathFilename, Weight: 4, Frequency: 1}}
	contentGroup := []candidateTerm{{Term: "oauth", Original: "OAuth", Source: SourceBody, Weight: 1, Frequency: 3}}

	merged := mergeCandidates(pathGroup, contentGroup)
	require.Len(t, merged, 1)
	assert.Equal(t, "oauth", merged[0].Term)
	assert.Equal(t, 4.0, merged[0].Weight)
	assert.Equal(t, SourcePathFilename, merged[0].Source)
	assert.Equal(t, 4, merged[0].Frequency)
}

func TestMergeCandidates_PreservesFirstSeenOrder(t *testing.T) {
	a := []candidateTerm{{Term: "zeta", Weight: 1, Frequency: 1}, {Term: "alpha", Weight: 1, Frequency: 1}}
	b := []candidateTerm{{Term: "alpha", Weight: 1, Frequency: 1}, {Term: "beta", Weight: 1, Frequency: 1}}

	merged := mergeCandidates(a, b)
	require.Len(t, merged, 3)
	assert.Equal(t, "zeta", merged[0].Term)
	assert.Equal(t, "alpha", merged[1].Term)
	assert.Equal(t, "beta", merged[2].Term)
}

func TestMergeCandidates_Empty(t *testing.T) {
	assert.Empty(t, mergeCandidates())
}
