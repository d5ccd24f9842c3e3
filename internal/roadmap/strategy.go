// Package roadmap holds the adaptation engine and the progress tracker. Every
// function here is deterministic apart from the Generator call in Engine.
package roadmap

import (
	"errors"
	"fmt"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
)

var ErrUnknownStrategy = errors.New("unknown adaptation strategy")

// Strategy tells the generator how to rebuild the pending part of a roadmap.
type Strategy string

const (
	StrategyInitial                    Strategy = "initial"
	StrategyRedistribute               Strategy = "redistribute"
	StrategyAppendContent              Strategy = "append_content"
	StrategyCompressSchedule           Strategy = "compress_schedule"
	StrategySimplifySchedule           Strategy = "simplify_schedule"
	StrategyIncreaseDifficultySameTime Strategy = "increase_difficulty_same_time"
)

func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(s)
	switch st {
	case StrategyRedistribute, StrategyAppendContent, StrategyCompressSchedule,
		StrategySimplifySchedule, StrategyIncreaseDifficultySameTime:
		return st, nil
	case StrategyInitial:
		return "", fmt.Errorf("%w: %q is not an adaptation", ErrUnknownStrategy, s)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Directive is the instruction handed to the generator for this strategy.
func (s Strategy) Directive() string {
	switch s {
	case StrategyInitial:
		return "Create a comprehensive roadmap from scratch that fits the available time."
	case StrategyRedistribute:
		return "Keep the same scope of content but spread it evenly over the available days, lowering the daily intensity."
	case StrategyAppendContent:
		return "Keep the current pace and use the extra days to add advanced topics, projects and certifications."
	case StrategyCompressSchedule:
		return "Keep every topic but compress the schedule: shorter durations and a higher daily intensity."
	case StrategySimplifySchedule:
		return "Drop optional and low-importance topics and keep only the essentials that fit the shorter time."
	case StrategyIncreaseDifficultySameTime:
		return "The user is moving fast. Keep the same time frame but make the remaining content more challenging and in-depth."
	}
	return ""
}

// DateChange classifies an edit of the target completion date.
type DateChange string

const (
	DateUnchanged  DateChange = "unchanged"
	DateExtension  DateChange = "extension"
	DateShortening DateChange = "shortening"
)

func ClassifyDateChange(oldDate, newDate calendar.Date) DateChange {
	switch {
	case newDate.After(oldDate):
		return DateExtension
	case newDate.Before(oldDate):
		return DateShortening
	default:
		return DateUnchanged
	}
}

// Strategies lists the options offered to the user for this kind of change.
func (c DateChange) Strategies() []Strategy {
	switch c {
	case DateExtension:
		return []Strategy{StrategyRedistribute, StrategyAppendContent}
	case DateShortening:
		return []Strategy{StrategyCompressSchedule, StrategySimplifySchedule}
	case DateUnchanged:
		return []Strategy{StrategyRedistribute, StrategyIncreaseDifficultySameTime}
	}
	return nil
}

func (c DateChange) Allows(s Strategy) bool {
	for _, allowed := range c.Strategies() {
		if allowed == s {
			return true
		}
	}
	return false
}

// AfterPhaseChoice is what the user picks when a phase has just been completed.
type AfterPhaseChoice string

const (
	ChoiceKeepPace      AfterPhaseChoice = "keep_pace"
	ChoiceHarder        AfterPhaseChoice = "harder"
	ChoiceFinishQuicker AfterPhaseChoice = "finish_quicker"
)

// AfterPhaseChoices are offered, in this order, when a phase is completed.
var AfterPhaseChoices = []AfterPhaseChoice{ChoiceKeepPace, ChoiceHarder, ChoiceFinishQuicker}

// Strategy maps the choice to a regeneration strategy. FinishQuicker has none
// and reports false.
func (c AfterPhaseChoice) Strategy() (Strategy, bool) {
	switch c {
	case ChoiceKeepPace:
		return StrategyRedistribute, true
	case ChoiceHarder:
		return StrategyIncreaseDifficultySameTime, true
	case ChoiceFinishQuicker:
		return "", false
	}
	return "", false
}

// Regenerates reports whether the choice calls the generation gateway.
func (c AfterPhaseChoice) Regenerates() bool {
	_, ok := c.Strategy()
	return ok
}
