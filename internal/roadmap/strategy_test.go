package roadmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
)

func TestClassifyDateChange(t *testing.T) {
	old := calendar.New(2025, time.May, 1)

	assert.Equal(t, DateExtension, ClassifyDateChange(old, old.AddDays(1)))
	assert.Equal(t, DateShortening, ClassifyDateChange(old, old.AddDays(-1)))
	assert.Equal(t, DateUnchanged, ClassifyDateChange(old, old))

	assert.Equal(t, []Strategy{StrategyRedistribute, StrategyAppendContent}, DateExtension.Strategies())
	assert.Equal(t, []Strategy{StrategyCompressSchedule, StrategySimplifySchedule}, DateShortening.Strategies())
	assert.True(t, DateUnchanged.Allows(StrategyIncreaseDifficultySameTime))
	assert.False(t, DateShortening.Allows(StrategyRedistribute))
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("compress_schedule")
	require.NoError(t, err)
	assert.Equal(t, StrategyCompressSchedule, s)

	_, err = ParseStrategy("initial")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = ParseStrategy("go_faster")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestEveryStrategyHasDirective(t *testing.T) {
	all := []Strategy{
		StrategyInitial, StrategyRedistribute, StrategyAppendContent,
		StrategyCompressSchedule, StrategySimplifySchedule, StrategyIncreaseDifficultySameTime,
	}
	for _, s := range all {
		assert.NotEmpty(t, s.Directive(), s)
	}
}

func TestAfterPhaseChoice(t *testing.T) {
	s, ok := ChoiceKeepPace.Strategy()
	assert.True(t, ok)
	assert.Equal(t, StrategyRedistribute, s)

	s, ok = ChoiceHarder.Strategy()
	assert.True(t, ok)
	assert.Equal(t, StrategyIncreaseDifficultySameTime, s)

	_, ok = ChoiceFinishQuicker.Strategy()
	assert.False(t, ok)
}

func TestGuard(t *testing.T) {
	g := NewGuard()
	key := GuardKey("u1", "c1")

	release, err := g.TryAcquire(key)
	require.NoError(t, err)

	_, err = g.TryAcquire(key)
	assert.ErrorIs(t, err, ErrAdaptationInProgress)

	other, err := g.TryAcquire(GuardKey("u1", "c2"))
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := g.TryAcquire(key)
	require.NoError(t, err)
	again()
}
