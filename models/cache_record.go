package models

import "time"

// CacheRecord is one persisted summary, keyed by entity identity (author ID
// or paper ID). A record is only usable when Summary and Payload are both
// present; partially written rows must never be served as a hit.
type CacheRecord struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Summary   string    `json:"summary" gorm:"type:text"`
	Payload   []byte    `json:"payload" gorm:"type:jsonb"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name explicitly.
func (CacheRecord) TableName() string {
	return "summary_cache"
}

// Complete reports whether the record satisfies the all-or-nothing
// invariant required for a cache hit.
func (r *CacheRecord) Complete() bool {
	return r != nil && r.Summary != "" && len(r.Payload) > 0
}
