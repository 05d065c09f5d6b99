package activity

import (
	"fmt"
	"time"

	"codetrack/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SourceApp is the counter column owned by first-party submissions.
// External platforms own a counter named after the platform.
const SourceApp = "app"

// Store is the activity ledger. Every write touches exactly one
// (user, day) record and re-establishes total_count = sum(source counters)
// inside the same transaction.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Increment adds delta to one source's counter for a day, creating the
// record if absent. Used by the submission path, where several events per
// day are expected and must accumulate.
func (s *Store) Increment(userID uint, dayKey, source string, delta int) error {
	return s.apply(userID, dayKey, source, delta, true)
}

// Replace sets one source's counter for a day to value. Used by the bulk
// reconciler: a snapshot carries the platform's full current count for that
// day, so re-applying it must not double count.
func (s *Store) Replace(userID uint, dayKey, source string, value int) error {
	return s.apply(userID, dayKey, source, value, false)
}

func (s *Store) apply(userID uint, dayKey, source string, n int, additive bool) error {
	if !ValidDayKey(dayKey) {
		return fmt.Errorf("%w: %q", ErrInvalidDayKey, dayKey)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		countValue := interface{}(n)
		if additive {
			countValue = gorm.Expr("count + ?", n)
		}

		row := models.ActivitySourceCount{
			UserID: userID,
			DayKey: dayKey,
			Source: source,
			Count:  n,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "day_key"}, {Name: "source"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":      countValue,
				"updated_at": time.Now(),
			}),
		}).Create(&row).Error; err != nil {
			return err
		}

		// Fresh sum over the record's source rows, inside the same
		// transaction, keeps total_count == sum(sourceCounters) on every
		// write path.
		var total int
		if err := tx.Model(&models.ActivitySourceCount{}).
			Where("user_id = ? AND day_key = ?", userID, dayKey).
			Select("COALESCE(SUM(count), 0)").
			Scan(&total).Error; err != nil {
			return err
		}

		rec := models.ActivityRecord{
			UserID:     userID,
			DayKey:     dayKey,
			TotalCount: total,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "day_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_count": total,
				"updated_at":  time.Now(),
			}),
		}).Create(&rec).Error
	})
}

// ListDayKeys returns the ascending day keys with nonzero activity for a
// user. Day keys sort chronologically as strings.
func (s *Store) ListDayKeys(userID uint) ([]string, error) {
	var days []string
	err := s.DB.Model(&models.ActivityRecord{}).
		Where("user_id = ? AND total_count > 0", userID).
		Order("day_key ASC").
		Pluck("day_key", &days).Error
	return days, err
}

type HeatmapEntry struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Heatmap returns the ascending per-day totals for a user.
func (s *Store) Heatmap(userID uint) ([]HeatmapEntry, error) {
	entries := []HeatmapEntry{}
	err := s.DB.Model(&models.ActivityRecord{}).
		Select("day_key AS day, total_count AS count").
		Where("user_id = ? AND total_count > 0", userID).
		Order("day_key ASC").
		Scan(&entries).Error
	return entries, err
}
