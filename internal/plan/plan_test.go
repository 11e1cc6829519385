package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_LevelOne(t *testing.T) {
	p := Generate(1)
	require.Len(t, p, 6)

	assert.Equal(t, PhaseSpec{Label: LabelRegularKegels, Squeeze: 3 * time.Second, Relax: 5 * time.Second, RepetitionCount: 10}, p[0])
	assert.Equal(t, PhaseSpec{Label: LabelRapidFire, Squeeze: 800 * time.Millisecond, Relax: 800 * time.Millisecond, RepetitionCount: 12}, p[1])
	assert.Equal(t, PhaseSpec{Label: LabelLongHolds, Squeeze: 11500 * time.Millisecond, Relax: 10 * time.Second, RepetitionCount: 2}, p[2])
	assert.Equal(t, LabelReverseKegels, p[3].Label)
	assert.Equal(t, PhaseSpec{Label: LabelReverseRapid, Squeeze: time.Second, Relax: time.Second, RepetitionCount: 12}, p[4])
	assert.Equal(t, LabelReverseHolds, p[5].Label)
}

func TestGenerate_AllLevelsBounded(t *testing.T) {
	for level := MinLevel; level <= MaxLevel; level++ {
		p := Generate(level)
		require.Len(t, p, 6, "level %d", level)

		for _, set := range p {
			assert.Positive(t, set.Squeeze, "level %d %s", level, set.Label)
			assert.Positive(t, set.Relax, "level %d %s", level, set.Label)
			assert.Positive(t, set.RepetitionCount, "level %d %s", level, set.Label)
			assert.LessOrEqual(t, set.RepetitionCount, 50, "level %d %s", level, set.Label)
		}

		// base sets carry the squeeze/relax bounds
		for _, base := range []PhaseSpec{p[0], p[3]} {
			assert.LessOrEqual(t, base.Squeeze, 10*time.Second, "level %d", level)
			assert.GreaterOrEqual(t, base.Relax, 3*time.Second, "level %d", level)
			assert.LessOrEqual(t, base.RepetitionCount, 15, "level %d", level)
		}
		assert.LessOrEqual(t, p[2].RepetitionCount, 5)
	}
}

func TestGenerate_LevelTwenty(t *testing.T) {
	p := Generate(20)
	assert.Equal(t, 10*time.Second, p[0].Squeeze)
	assert.Equal(t, 3*time.Second, p[0].Relax)
	assert.Equal(t, 15, p[0].RepetitionCount)
	assert.Equal(t, 50, p[1].RepetitionCount)
	assert.Equal(t, 40*time.Second, p[2].Squeeze)
	assert.Equal(t, 5, p[2].RepetitionCount)
}

func TestGenerate_ClampsLowLevels(t *testing.T) {
	assert.Equal(t, Generate(1), Generate(0))
	assert.Equal(t, Generate(1), Generate(-7))
}

func TestGenerate_Deterministic(t *testing.T) {
	assert.Equal(t, Generate(9), Generate(9))
}

func TestPhaseSpec_Kinds(t *testing.T) {
	p := Generate(3)
	assert.False(t, p[0].IsRapid())
	assert.True(t, p[1].IsRapid())
	assert.True(t, p[4].IsRapid())
	assert.False(t, p[0].IsReverse())
	assert.True(t, p[3].IsReverse())
}

func TestPlan_TotalDuration(t *testing.T) {
	p := Plan{
		{Label: "a", Squeeze: time.Second, Relax: 2 * time.Second, RepetitionCount: 2},
		{Label: "b", Squeeze: 500 * time.Millisecond, Relax: 500 * time.Millisecond, RepetitionCount: 3},
	}
	assert.Equal(t, 9*time.Second, p.TotalDuration())
}

func TestClampLevel(t *testing.T) {
	assert.Equal(t, 1, ClampLevel(-3))
	assert.Equal(t, 7, ClampLevel(7))
	assert.Equal(t, 20, ClampLevel(99))
}
