package production

import "time"

const (
	MaxDownloadEvents     = 25
	DefaultTTL            = 72 * time.Hour
	DefaultBundleFilename = "photos.zip"
)

type Attachment struct {
	Filename    string `json:"filename"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type DownloadEvent struct {
	At time.Time `json:"at"`
	IP string    `json:"ip,omitempty"`
}

// Pick is one photo and backdrop combination chosen by a guest.
type Pick struct {
	PhotoID      string `json:"photoId"`
	BackgroundID string `json:"backgroundId,omitempty"`
}

type Set struct {
	ID               string          `json:"id"`
	Email            string          `json:"email"`
	CreatedAt        time.Time       `json:"createdAt"`
	DownloadToken    string          `json:"downloadToken"`
	TokenExpiresAt   time.Time       `json:"tokenExpiresAt"`
	Attachments      []Attachment    `json:"attachments"`
	BundleKey        string          `json:"bundleKey,omitempty"`
	BundleFilename   string          `json:"bundleFilename,omitempty"`
	DownloadCount    int             `json:"downloadCount"`
	LastDownloadedAt *time.Time      `json:"lastDownloadedAt,omitempty"`
	DownloadEvents   []DownloadEvent `json:"downloadEvents,omitempty"`
	Selections       []Pick          `json:"selections,omitempty"`
}

// ExpiredAt uses an exclusive boundary: a set is expired at TokenExpiresAt.
func (s Set) ExpiredAt(now time.Time) bool {
	return !now.Before(s.TokenExpiresAt)
}

// Keys lists every object backing the set, bundle included.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s.Attachments)+1)
	for _, a := range s.Attachments {
		keys = append(keys, a.Key)
	}
	if s.BundleKey != "" {
		keys = append(keys, s.BundleKey)
	}
	return keys
}

// Partition splits sets into those still valid at now and those expired.
// Order is preserved in both halves. It shares ExpiredAt with Verify, so a
// set is purged from the instant its link stops working.
func Partition(sets []Set, now time.Time) (kept, expired []Set) {
	kept = make([]Set, 0, len(sets))
	for _, s := range sets {
		if s.ExpiredAt(now) {
			expired = append(expired, s)
			continue
		}
		kept = append(kept, s)
	}
	return kept, expired
}

// Public strips the download token for listings.
func (s Set) Public() Set {
	s.DownloadToken = ""
	return s
}
