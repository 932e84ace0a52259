package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(offset int) time.Time {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestApplyCompletionFirstEver(t *testing.T) {
	habit := Habit{}

	habit.ApplyCompletion(day(0))

	assert.Equal(t, 1, habit.CurrentStreak)
	assert.Equal(t, 1, habit.LongestStreak)
	assert.Equal(t, day(0), *habit.LastCompleted)
}

func TestApplyCompletionConsecutiveDays(t *testing.T) {
	habit := Habit{}

	for i := 0; i < 10; i++ {
		habit.ApplyCompletion(day(i))
		assert.Equal(t, i+1, habit.CurrentStreak)
		assert.Equal(t, i+1, habit.LongestStreak)
	}
}

func TestApplyCompletionGapResetsStreak(t *testing.T) {
	habit := Habit{}
	habit.ApplyCompletion(day(0))
	habit.ApplyCompletion(day(1))

	// skip day 2
	habit.ApplyCompletion(day(3))

	assert.Equal(t, 1, habit.CurrentStreak)
	assert.Equal(t, 2, habit.LongestStreak)
	assert.Equal(t, day(3), *habit.LastCompleted)
}

func TestApplyCompletionSameDayIsNoop(t *testing.T) {
	habit := Habit{}
	habit.ApplyCompletion(day(0))
	habit.ApplyCompletion(day(1))

	habit.ApplyCompletion(day(1))

	assert.Equal(t, 2, habit.CurrentStreak)
	assert.Equal(t, 2, habit.LongestStreak)
}

func TestApplyCompletionLongestNeverBelowCurrent(t *testing.T) {
	habit := Habit{}
	days := []int{0, 1, 2, 5, 6, 7, 8, 20, 21}

	for _, d := range days {
		habit.ApplyCompletion(day(d))
		assert.GreaterOrEqual(t, habit.LongestStreak, habit.CurrentStreak)
	}

	assert.Equal(t, 2, habit.CurrentStreak)
	assert.Equal(t, 4, habit.LongestStreak)
}

func TestApplyCompletionRebuildsAfterReset(t *testing.T) {
	habit := Habit{CurrentStreak: 1, LongestStreak: 5}
	last := day(0)
	habit.LastCompleted = &last

	habit.ApplyCompletion(day(1))

	assert.Equal(t, 2, habit.CurrentStreak)
	assert.Equal(t, 5, habit.LongestStreak)
}

func TestDateOfNormalizesToMidnightUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	stamp := time.Date(2024, 3, 2, 1, 30, 0, 0, loc) // 2024-03-01 20:30 UTC

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), DateOf(stamp))
}
