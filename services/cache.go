package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scholar-summary/models"
)

// CacheService serves summaries from PostgreSQL with a freshness gate.
// Incomplete or stale records count as misses; readers then regenerate and
// overwrite.
type CacheService struct {
	db     *gorm.DB
	maxAge time.Duration
	logger *zap.Logger
}

// NewCacheService creates a cache with the given staleness window.
func NewCacheService(db *gorm.DB, maxAge time.Duration, logger *zap.Logger) *CacheService {
	return &CacheService{db: db, maxAge: maxAge, logger: logger}
}

// IsStale reports whether a record updated at t has outlived the staleness
// window. A zero time is always stale.
func (s *CacheService) IsStale(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	return time.Since(t) > s.maxAge
}

// Get returns the cached record for the key when it is complete and
// fresh. Anything else is a miss, including database errors, which are
// logged and absorbed so regeneration can proceed.
func (s *CacheService) Get(key string) (*models.CacheRecord, bool) {
	var rec models.CacheRecord
	err := s.db.First(&rec, "key = ?", key).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("Cache lookup failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if !rec.Complete() || s.IsStale(rec.UpdatedAt) {
		return nil, false
	}
	return &rec, true
}

// Put upserts a complete record for the key with a fresh timestamp.
// Concurrent writers race benignly; the last write wins.
func (s *CacheService) Put(key, summary string, payload []byte) error {
	rec := models.CacheRecord{
		Key:       key,
		Summary:   summary,
		Payload:   payload,
		UpdatedAt: time.Now(),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"summary", "payload", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		s.logger.Error("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// PurgeStale deletes every record older than the staleness window and
// returns how many rows were removed.
func (s *CacheService) PurgeStale() (int64, error) {
	cutoff := time.Now().Add(-s.maxAge)
	res := s.db.Where("updated_at < ?", cutoff).Delete(&models.CacheRecord{})
	if res.Error != nil {
		s.logger.Error("Cache purge failed", zap.Error(res.Error))
		return 0, res.Error
	}
	s.logger.Info("Purged stale cache records", zap.Int64("deleted", res.RowsAffected))
	return res.RowsAffected, nil
}
