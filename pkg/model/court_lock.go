package model

import "time"

// CourtLock is an advisory lock serializing admission for one court on one
// date. The owner token lets only the holder release it.
type CourtLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (l *CourtLock) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}
