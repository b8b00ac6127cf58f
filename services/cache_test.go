package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"scholar-summary/models"
)

func TestIsStale(t *testing.T) {
	svc := NewCacheService(nil, 15*24*time.Hour, zap.NewNop())

	assert.True(t, svc.IsStale(time.Time{}), "zero time must count as stale")
	assert.True(t, svc.IsStale(time.Now().Add(-20*24*time.Hour)), "20-day-old record is past the 15-day window")
	assert.False(t, svc.IsStale(time.Now().Add(-14*24*time.Hour)))
	assert.False(t, svc.IsStale(time.Now()))
}

func TestCacheRecordComplete(t *testing.T) {
	var nilRec *models.CacheRecord
	assert.False(t, nilRec.Complete())
	assert.False(t, (&models.CacheRecord{Summary: "s"}).Complete())
	assert.False(t, (&models.CacheRecord{Payload: []byte("{}")}).Complete())
	assert.True(t, (&models.CacheRecord{Summary: "s", Payload: []byte("{}")}).Complete())
}
