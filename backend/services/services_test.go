package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"habittracker/backend/config"
	"habittracker/backend/models"
	"habittracker/backend/utils"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

var (
	db         *gorm.DB
	userSerial int
)

func TestMain(m *testing.M) {
	cfg := &config.Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBPassword: "postgres",
		DBName:     "habit_tracker_test",
		JWTSecret:  "testsecret",
		ServerPort: "8080",
	}

	var err error
	db, err = utils.InitDB(cfg)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	db.Migrator().DropTable(
		&models.User{},
		&models.LoginHistory{},
		&models.Habit{},
		&models.HabitCompletion{},
		&models.Badge{},
		&models.UserBadge{},
		&models.CalendarEvent{},
	)
	os.Exit(code)
}

func newService() *CompletionService {
	return NewCompletionService(db, log.New(io.Discard, "", 0))
}

func seedUserAndHabit(t *testing.T) (models.User, models.Habit) {
	t.Helper()
	userSerial++

	user := models.User{
		Username:     fmt.Sprintf("user%d", userSerial),
		Email:        fmt.Sprintf("user%d@example.com", userSerial),
		PasswordHash: "x",
	}
	assert.NoError(t, db.Create(&user).Error)

	habit := models.Habit{UserID: user.ID, Name: "Morning run"}
	assert.NoError(t, db.Create(&habit).Error)

	return user, habit
}

func daysAgo(n int) time.Time {
	return models.Today().AddDate(0, 0, -n)
}

func TestRecordCompletionToday(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	svc := newService()

	completion, err := svc.RecordCompletion(habit.ID, user.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, habit.ID, completion.HabitID)
	assert.Equal(t, user.ID, completion.UserID)
	assert.Equal(t, models.Today(), models.DateOf(completion.DateCompleted))

	var updated models.Habit
	assert.NoError(t, db.First(&updated, habit.ID).Error)
	assert.Equal(t, 1, updated.CurrentStreak)
	assert.Equal(t, 1, updated.LongestStreak)
	assert.Equal(t, models.Today(), models.DateOf(*updated.LastCompleted))
}

func TestRecordCompletionConsecutiveThenGap(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	svc := newService()

	// day 1 and day 2 back to back, skip a day, then day 4
	d1 := daysAgo(4)
	d2 := daysAgo(3)
	d4 := daysAgo(1)

	_, err := svc.RecordCompletion(habit.ID, user.ID, &d1)
	assert.NoError(t, err)
	_, err = svc.RecordCompletion(habit.ID, user.ID, &d2)
	assert.NoError(t, err)

	var updated models.Habit
	assert.NoError(t, db.First(&updated, habit.ID).Error)
	assert.Equal(t, 2, updated.CurrentStreak)
	assert.Equal(t, 2, updated.LongestStreak)

	_, err = svc.RecordCompletion(habit.ID, user.ID, &d4)
	assert.NoError(t, err)

	assert.NoError(t, db.First(&updated, habit.ID).Error)
	assert.Equal(t, 1, updated.CurrentStreak)
	assert.Equal(t, 2, updated.LongestStreak)
}

func TestRecordCompletionDuplicateDate(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	svc := newService()

	_, err := svc.RecordCompletion(habit.ID, user.ID, nil)
	assert.NoError(t, err)

	_, err = svc.RecordCompletion(habit.ID, user.ID, nil)
	assert.ErrorIs(t, err, ErrDuplicateCompletion)

	// exactly one row persisted, streak untouched
	var count int64
	db.Model(&models.HabitCompletion{}).Where("habit_id = ?", habit.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	var updated models.Habit
	assert.NoError(t, db.First(&updated, habit.ID).Error)
	assert.Equal(t, 1, updated.CurrentStreak)
}

func TestRecordCompletionConcurrentDuplicate(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	svc := newService()

	// two requests race on the same (habit, date); the unique index
	// picks the winner, the loser sees the duplicate error
	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordCompletion(habit.ID, user.ID, nil)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, duplicates int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateCompletion):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, duplicates)

	var count int64
	db.Model(&models.HabitCompletion{}).Where("habit_id = ?", habit.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	var updated models.Habit
	assert.NoError(t, db.First(&updated, habit.ID).Error)
	assert.Equal(t, 1, updated.CurrentStreak)
	assert.Equal(t, 1, updated.LongestStreak)
}

func TestRecordCompletionFutureDate(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	svc := newService()

	future := models.Today().AddDate(0, 0, 1)
	_, err := svc.RecordCompletion(habit.ID, user.ID, &future)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestRecordCompletionBackdatedBeforeLast(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	svc := newService()

	_, err := svc.RecordCompletion(habit.ID, user.ID, nil)
	assert.NoError(t, err)

	past := daysAgo(2)
	_, err = svc.RecordCompletion(habit.ID, user.ID, &past)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestRecordCompletionForeignHabit(t *testing.T) {
	_, habit := seedUserAndHabit(t)
	stranger, _ := seedUserAndHabit(t)
	svc := newService()

	_, err := svc.RecordCompletion(habit.ID, stranger.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordCompletionQueuesCalendarEvent(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	svc := newService()

	_, err := svc.RecordCompletion(habit.ID, user.ID, nil)
	assert.NoError(t, err)

	var events []models.CalendarEvent
	assert.NoError(t, db.Where("habit_id = ?", habit.ID).Find(&events).Error)
	assert.Len(t, events, 1)
	assert.Equal(t, "Morning run - Completed", events[0].Summary)
	assert.Equal(t, "pending", events[0].Status)
	assert.NotEmpty(t, events[0].EventID)
}

func TestDeleteCompletion(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	svc := newService()

	completion, err := svc.RecordCompletion(habit.ID, user.ID, nil)
	assert.NoError(t, err)

	assert.NoError(t, svc.DeleteCompletion(completion.ID, user.ID))

	var count int64
	db.Model(&models.HabitCompletion{}).Where("habit_id = ?", habit.ID).Count(&count)
	assert.EqualValues(t, 0, count)

	// the day can be completed again after the delete
	_, err = svc.RecordCompletion(habit.ID, user.ID, nil)
	assert.NoError(t, err)
}

func TestDeleteCompletionForeignUser(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	stranger, _ := seedUserAndHabit(t)
	svc := newService()

	completion, err := svc.RecordCompletion(habit.ID, user.ID, nil)
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteCompletion(completion.ID, stranger.ID), ErrNotFound)
}

func TestBeginnerBadgeOnFifthCompletion(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	svc := newService()

	var beginner models.Badge
	assert.NoError(t, db.Where("name = ?", "Beginner").First(&beginner).Error)

	for i := 9; i >= 5; i-- {
		d := daysAgo(i * 2) // gaps are fine, only the count matters
		_, err := svc.RecordCompletion(habit.ID, user.ID, &d)
		assert.NoError(t, err)
	}

	var awards []models.UserBadge
	assert.NoError(t, db.Where("user_id = ? AND badge_id = ?", user.ID, beginner.ID).Find(&awards).Error)
	assert.Len(t, awards, 1)
}

func TestConsistencyBadgeOnSevenDayStreak(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	svc := newService()

	var consistency models.Badge
	assert.NoError(t, db.Where("name = ?", "Consistency").First(&consistency).Error)

	for i := 6; i >= 0; i-- {
		d := daysAgo(i)
		_, err := svc.RecordCompletion(habit.ID, user.ID, &d)
		assert.NoError(t, err)
	}

	var updated models.Habit
	assert.NoError(t, db.First(&updated, habit.ID).Error)
	assert.Equal(t, 7, updated.CurrentStreak)

	var count int64
	db.Model(&models.UserBadge{}).Where("user_id = ? AND badge_id = ?", user.ID, consistency.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestProBadgeOnThirtiethCompletion(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	svc := newService()

	var pro models.Badge
	assert.NoError(t, db.Where("name = ?", "Pro").First(&pro).Error)
	assert.Equal(t, models.CriteriaTotalCompletions, pro.CriteriaType)
	assert.Equal(t, 30, pro.CriteriaValue)

	for i := 29; i >= 1; i-- {
		d := daysAgo(i)
		_, err := svc.RecordCompletion(habit.ID, user.ID, &d)
		assert.NoError(t, err)
	}

	// 29 completions is not enough
	var count int64
	db.Model(&models.UserBadge{}).Where("user_id = ? AND badge_id = ?", user.ID, pro.ID).Count(&count)
	assert.EqualValues(t, 0, count)

	_, err := svc.RecordCompletion(habit.ID, user.ID, nil)
	assert.NoError(t, err)

	db.Model(&models.UserBadge{}).Where("user_id = ? AND badge_id = ?", user.ID, pro.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestEvaluateAndAwardIdempotent(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	svc := newService()

	for i := 6; i >= 0; i-- {
		d := daysAgo(i)
		_, err := svc.RecordCompletion(habit.ID, user.ID, &d)
		assert.NoError(t, err)
	}

	var updated models.Habit
	assert.NoError(t, db.First(&updated, habit.ID).Error)

	var before int64
	db.Model(&models.UserBadge{}).Where("user_id = ?", user.ID).Count(&before)

	// re-running with unchanged history must not add rows
	assert.NoError(t, svc.Gamification.EvaluateAndAward(user.ID, &updated))
	assert.NoError(t, svc.Gamification.EvaluateAndAward(user.ID, &updated))

	var after int64
	db.Model(&models.UserBadge{}).Where("user_id = ?", user.ID).Count(&after)
	assert.Equal(t, before, after)
}

func TestWindowStatsThirtyDays(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	svc := newService()
	analytics := NewAnalyticsService(db)

	// 10 completions inside the 30-day window, oldest first
	for i := 9; i >= 0; i-- {
		d := daysAgo(i * 3)
		_, err := svc.RecordCompletion(habit.ID, user.ID, &d)
		assert.NoError(t, err)
	}

	stats, err := analytics.HabitWindowStats(habit.ID, user.ID, 30, models.Today())
	assert.NoError(t, err)
	assert.Equal(t, 10, stats.TotalCompletions)
	assert.Equal(t, 33.33, stats.CompletionRate)
	assert.Len(t, stats.Daily, 30)

	// newest day is the last entry and was completed
	assert.True(t, stats.Daily[29])
}

func TestWindowStatsExcludesOutsideWindow(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	svc := newService()
	analytics := NewAnalyticsService(db)

	old := daysAgo(10)
	recent := daysAgo(1)
	_, err := svc.RecordCompletion(habit.ID, user.ID, &old)
	assert.NoError(t, err)
	_, err = svc.RecordCompletion(habit.ID, user.ID, &recent)
	assert.NoError(t, err)

	stats, err := analytics.HabitWindowStats(habit.ID, user.ID, 7, models.Today())
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCompletions)
	assert.Equal(t, 14.29, stats.CompletionRate)
}

func TestWindowStatsForeignHabit(t *testing.T) {
	_, habit := seedUserAndHabit(t)
	stranger, _ := seedUserAndHabit(t)
	analytics := NewAnalyticsService(db)

	_, err := analytics.HabitWindowStats(habit.ID, stranger.ID, 30, models.Today())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWindowStatsRejectsEmptyWindow(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	analytics := NewAnalyticsService(db)

	_, err := analytics.HabitWindowStats(habit.ID, user.ID, 0, models.Today())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestWindowStatsRejectsOversizedWindow(t *testing.T) {
	user, habit := seedUserAndHabit(t)
	analytics := NewAnalyticsService(db)

	_, err := analytics.HabitWindowStats(habit.ID, user.ID, MaxWindowDays+1, models.Today())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = analytics.HabitWindowStats(habit.ID, user.ID, MaxWindowDays, models.Today())
	assert.NoError(t, err)
}
