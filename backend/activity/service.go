package activity

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"codetrack/backend/models"
	"codetrack/backend/platform"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the activity engine: it owns the per-day ledger, the derived
// streak state and the total-solved aggregate for every user. All ledger
// writes for one user are serialized through a per-user lock; different
// users never contend.
type Service struct {
	DB           *gorm.DB
	Store        *Store
	Bucketer     *Bucketer
	Platforms    *platform.Registry
	Logger       *log.Logger
	FetchTimeout time.Duration

	now   func() time.Time
	locks sync.Map // userID -> *sync.Mutex
}

func NewService(db *gorm.DB, bucketer *Bucketer, registry *platform.Registry, logger *log.Logger, fetchTimeout time.Duration) *Service {
	return &Service{
		DB:           db,
		Store:        NewStore(db),
		Bucketer:     bucketer,
		Platforms:    registry,
		Logger:       logger,
		FetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}

func (s *Service) userLock(userID uint) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *Service) today() string {
	return s.Bucketer.Key(s.now())
}

func (s *Service) ensureUser(userID uint) error {
	var n int64
	if err := s.DB.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IngestResult is returned to the submission collaborator after one event
// has been applied.
type IngestResult struct {
	Day           string `json:"day"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	TotalSolved   int    `json:"total_solved"`
}

// RecordSubmission applies one accepted first-party submission to the
// ledger. The event is already deduplicated per (user, challenge) upstream.
// Later same-day events still accumulate in the day's counter; only the
// first one can advance the streak.
func (s *Service) RecordSubmission(ctx context.Context, userID, challengeID uint, occurredAt time.Time) (IngestResult, error) {
	if err := s.ensureUser(userID); err != nil {
		return IngestResult{}, err
	}

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	sub := models.Submission{UserID: userID, ChallengeID: challengeID, OccurredAt: occurredAt}
	if err := s.DB.WithContext(ctx).Create(&sub).Error; err != nil {
		return IngestResult{}, err
	}

	day := s.Bucketer.Key(occurredAt)
	if err := s.Store.Increment(userID, day, SourceApp, 1); err != nil {
		return IngestResult{}, err
	}

	today := s.today()
	state, err := s.advanceStreak(userID, day, today)
	if err != nil {
		return IngestResult{}, err
	}

	total, err := s.totalSolved(userID)
	if err != nil {
		return IngestResult{}, err
	}

	current, longest := streakView(state, today)
	return IngestResult{Day: day, CurrentStreak: current, LongestStreak: longest, TotalSolved: total}, nil
}

// advanceStreak is the incremental fast path: the event touched only today,
// so the cached run can be extended without rescanning the ledger. Anything
// off the happy path falls back to the full rescan.
func (s *Service) advanceStreak(userID uint, day, today string) (models.StreakState, error) {
	if day != today {
		// Backdated event; the cached run may now be wrong.
		return s.rescanStreak(userID)
	}

	var state models.StreakState
	err := s.DB.Where("user_id = ?", userID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.rescanStreak(userID)
	}
	if err != nil {
		return state, err
	}
	if state.LastActivityDay == "" {
		return s.rescanStreak(userID)
	}

	switch gap := DaysBetween(state.LastActivityDay, today); {
	case gap == 0:
		// Already counted an event today.
		return state, nil
	case gap == 1:
		state.CurrentStreak++
	case gap > 1:
		state.CurrentStreak = 1
	default:
		// Cache is ahead of today; rebuild from the ledger.
		return s.rescanStreak(userID)
	}

	if state.CurrentStreak > state.LongestStreak {
		state.LongestStreak = state.CurrentStreak
	}
	state.LastActivityDay = today
	if err := s.DB.Save(&state).Error; err != nil {
		return state, err
	}
	return state, nil
}

// rescanStreak rebuilds the cached streak state from the full day-key
// sequence. CurrentStreak stores the run ending at LastActivityDay; whether
// that run counts as a live streak is decided at read time against today.
func (s *Service) rescanStreak(userID uint) (models.StreakState, error) {
	days, err := s.Store.ListDayKeys(userID)
	if err != nil {
		return models.StreakState{}, err
	}

	run, longest := streakWalk(days)
	last := ""
	if len(days) > 0 {
		last = days[len(days)-1]
	}

	state := models.StreakState{
		UserID:          userID,
		CurrentStreak:   run,
		LongestStreak:   longest,
		LastActivityDay: last,
	}
	err = s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"current_streak":    run,
			"longest_streak":    longest,
			"last_activity_day": last,
			"updated_at":        time.Now(),
		}),
	}).Create(&state).Error
	return state, err
}

// streakView applies the as-of rule: the stored run only counts as the
// current streak when the user was active today.
func streakView(state models.StreakState, today string) (current, longest int) {
	longest = state.LongestStreak
	if state.LastActivityDay == today {
		current = state.CurrentStreak
	}
	return current, longest
}

// Streak reports the user's streak as of today.
func (s *Service) Streak(userID uint) (current, longest int, err error) {
	if err := s.ensureUser(userID); err != nil {
		return 0, 0, err
	}

	var state models.StreakState
	dbErr := s.DB.Where("user_id = ?", userID).First(&state).Error
	if dbErr != nil && !errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return 0, 0, dbErr
	}
	current, longest = streakView(state, s.today())
	return current, longest, nil
}

// Heatmap returns the ascending per-day activity totals for a user.
func (s *Service) Heatmap(userID uint) ([]HeatmapEntry, error) {
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}
	return s.Store.Heatmap(userID)
}

// TotalSolved is the lifetime solved count: all-time app submissions plus
// each platform's authoritative solved number. It deliberately never reads
// the day ledger, so overlapping scrape windows cannot drift it.
func (s *Service) TotalSolved(userID uint) (int, error) {
	if err := s.ensureUser(userID); err != nil {
		return 0, err
	}
	return s.totalSolved(userID)
}

func (s *Service) totalSolved(userID uint) (int, error) {
	var subs int64
	if err := s.DB.Model(&models.Submission{}).Where("user_id = ?", userID).Count(&subs).Error; err != nil {
		return 0, err
	}

	var solved int
	if err := s.DB.Model(&models.PlatformStats{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(solved_problems), 0)").
		Scan(&solved).Error; err != nil {
		return 0, err
	}

	return int(subs) + solved, nil
}
