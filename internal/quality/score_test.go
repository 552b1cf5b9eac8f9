package quality

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComplexityScoreDecreasesWithCyclomaticAndFloors(t *testing.T) {
	require.Equal(t, 100.0, ComplexityScore(0))
	require.Equal(t, 80.0, ComplexityScore(10))
	require.Equal(t, 0.0, ComplexityScore(100))
}

func TestCoverageScorePassesThrough(t *testing.T) {
	require.Equal(t, 73.5, CoverageScore(73.5))
}

func TestMaintainabilityAppliesDocumentationBonus(t *testing.T) {
	documented := Maintainability(80, 60, true)
	undocumented := Maintainability(80, 60, false)
	require.Equal(t, 20.0, documented-undocumented)
}

func TestComputeProducesConsistentOverall(t *testing.T) {
	score := Compute(5, 90, true)
	require.Equal(t, ComplexityScore(5), score.Complexity)
	require.Equal(t, CoverageScore(90), score.Coverage)
	require.Equal(t, Maintainability(score.Complexity, score.Coverage, true), score.Maintainability)
	require.Equal(t, Overall(score.Complexity, score.Coverage, score.Maintainability), score.Overall)
}
