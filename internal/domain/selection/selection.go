package selection

import "time"

const DefaultTTL = 72 * time.Hour

type Token struct {
	Token     string     `json:"token"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	OwnerID   string     `json:"ownerId"`
	EventID   string     `json:"eventId"`
}

func (t *Token) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
