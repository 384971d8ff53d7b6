package model

import "time"

// Host is an issued host credential. Token is only ever redeemed once.
type Host struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Token       string     `json:"token"`
	TokenUsed   bool       `json:"token_used"`
	SentViaEtsy bool       `json:"sent_via_etsy"`
	SentAt      *time.Time `json:"sent_at"`
	UsedAt      *time.Time `json:"used_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
