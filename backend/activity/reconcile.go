package activity

import (
	"context"
	"errors"
	"sync"
	"time"

	"codetrack/backend/models"
	"codetrack/backend/platform"

	"gorm.io/gorm/clause"
)

// PlatformResult is the outcome of reconciling one platform. Failures stay
// here instead of becoming the request error, so one broken platform never
// blocks the others.
type PlatformResult struct {
	Platform    string `json:"platform"`
	OK          bool   `json:"ok"`
	DaysApplied int    `json:"days_applied"`
	DaysDropped int    `json:"days_dropped"`
	Error       string `json:"error,omitempty"`
}

// RefreshResult is the best-effort combined outcome of one refresh.
type RefreshResult struct {
	Platforms     []PlatformResult `json:"platforms"`
	CurrentStreak int              `json:"current_streak"`
	LongestStreak int              `json:"longest_streak"`
	TotalSolved   int              `json:"total_solved"`
}

type fetchOutcome struct {
	account models.PlatformAccount
	history []platform.DaySubmissions
	stats   platform.ProfileStats
	err     error
}

// Refresh reconciles every platform the user has linked. Fetches run in
// parallel under the configured timeout; ledger writes are then applied
// sequentially under the user lock, so the increment and replace paths
// never interleave on one record. The streak is rescanned exactly once per
// batch, however many days were touched. Storage failures abort the
// request; platform failures only mark their own result.
func (s *Service) Refresh(ctx context.Context, userID uint) (RefreshResult, error) {
	if err := s.ensureUser(userID); err != nil {
		return RefreshResult{}, err
	}

	var accounts []models.PlatformAccount
	if err := s.DB.Where("user_id = ?", userID).Order("platform ASC").Find(&accounts).Error; err != nil {
		return RefreshResult{}, err
	}

	outcomes := make([]fetchOutcome, len(accounts))
	var wg sync.WaitGroup
	for i, acc := range accounts {
		wg.Add(1)
		go func(i int, acc models.PlatformAccount) {
			defer wg.Done()
			outcomes[i] = s.fetchPlatform(ctx, acc)
		}(i, acc)
	}
	wg.Wait()

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	refreshedAt := s.now()
	results := make([]PlatformResult, 0, len(outcomes))
	for _, out := range outcomes {
		res := PlatformResult{Platform: out.account.Platform}
		if out.err != nil {
			res.Error = out.err.Error()
			s.Logger.Printf("refresh: user %d: %v", userID, out.err)
			results = append(results, res)
			continue
		}

		for _, day := range out.history {
			if !ValidDayKey(day.Day) {
				res.DaysDropped++
				s.Logger.Printf("refresh: user %d: dropping invalid day key %q from %s",
					userID, day.Day, out.account.Platform)
				continue
			}
			if err := s.Store.Replace(userID, day.Day, out.account.Platform, day.Count); err != nil {
				return RefreshResult{}, err
			}
			res.DaysApplied++
		}

		if err := s.savePlatformStats(userID, out.account.Platform, out.stats, refreshedAt); err != nil {
			return RefreshResult{}, err
		}
		res.OK = true
		results = append(results, res)
	}

	state, err := s.rescanStreak(userID)
	if err != nil {
		return RefreshResult{}, err
	}
	total, err := s.totalSolved(userID)
	if err != nil {
		return RefreshResult{}, err
	}

	current, longest := streakView(state, s.today())
	return RefreshResult{
		Platforms:     results,
		CurrentStreak: current,
		LongestStreak: longest,
		TotalSolved:   total,
	}, nil
}

func (s *Service) fetchPlatform(ctx context.Context, acc models.PlatformAccount) fetchOutcome {
	out := fetchOutcome{account: acc}

	client, ok := s.Platforms.Client(acc.Platform)
	if !ok {
		out.err = &SourceError{Platform: acc.Platform, Err: errors.New("no client registered")}
		return out
	}

	fctx, cancel := context.WithTimeout(ctx, s.FetchTimeout)
	defer cancel()

	history, err := client.FetchSubmissionHistory(fctx, acc.Handle)
	if err != nil {
		out.err = &SourceError{Platform: acc.Platform, Err: err}
		return out
	}
	stats, err := client.FetchProfileStats(fctx, acc.Handle)
	if err != nil {
		out.err = &SourceError{Platform: acc.Platform, Err: err}
		return out
	}

	out.history = history
	out.stats = stats
	return out
}

func (s *Service) savePlatformStats(userID uint, platformName string, stats platform.ProfileStats, refreshedAt time.Time) error {
	row := models.PlatformStats{
		UserID:          userID,
		Platform:        platformName,
		SolvedProblems:  stats.SolvedProblems,
		Rating:          stats.Rating,
		Rank:            stats.Rank,
		LastRefreshedAt: refreshedAt,
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"solved_problems":   stats.SolvedProblems,
			"rating":            stats.Rating,
			"rank":              stats.Rank,
			"last_refreshed_at": refreshedAt,
			"updated_at":        time.Now(),
		}),
	}).Create(&row).Error
}
