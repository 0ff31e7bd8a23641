package photo

import "time"

type Photo struct {
	ID           string    `json:"id"`
	Email        string    `json:"email,omitempty"`
	Filename     string    `json:"filename"`
	Key          string    `json:"key"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	ProcessedKey string    `json:"processedKey,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
