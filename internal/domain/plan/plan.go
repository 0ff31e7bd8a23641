package plan

import "strings"

type ID string

const (
	Free   ID = "free"
	Basic  ID = "basic"
	Pro    ID = "pro"
	Studio ID = "studio"
)

// Defaults are derived from the plan on every read and never stored.
type Defaults struct {
	PhotoCap            *int `json:"photoCap"`
	AICredits           int  `json:"aiCredits"`
	OverlaysAll         bool `json:"overlaysAll"`
	PremiumFilters      bool `json:"premiumFilters"`
	WatermarkEnabled    bool `json:"watermarkEnabled"`
	SMSEnabled          bool `json:"smsEnabled"`
	AllowAIBackgrounds  bool `json:"allowAiBackgrounds"`
	GalleryZipEnabled   bool `json:"galleryZipEnabled"`
	CanAddCollaborators bool `json:"canAddCollaborators"`
}

var legacyAliases = map[string]ID{
	"trial":        Free,
	"starter-free": Free,
	"starter":      Basic,
	"essential":    Basic,
	"essentials":   Basic,
	"premium":      Pro,
	"plus":         Pro,
	"professional": Pro,
	"business":     Studio,
	"enterprise":   Studio,
	"unlimited":    Studio,
}

// Normalize maps historical plan names onto the current set. Anything
// unrecognised becomes Free.
func Normalize(raw string) ID {
	key := strings.ToLower(strings.TrimSpace(raw))
	switch ID(key) {
	case Free, Basic, Pro, Studio:
		return ID(key)
	}
	if id, ok := legacyAliases[key]; ok {
		return id
	}
	return Free
}

// Parse is Normalize for caller input: it also reports whether raw named a
// known plan or alias.
func Parse(raw string) (ID, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := legacyAliases[key]; ok || ID(key).Valid() {
		return Normalize(key), true
	}
	return Free, false
}

func (id ID) Valid() bool {
	switch id {
	case Free, Basic, Pro, Studio:
		return true
	}
	return false
}

func DefaultsFor(id ID) Defaults {
	switch Normalize(string(id)) {
	case Basic:
		return Defaults{
			PhotoCap:          intPtr(50),
			AICredits:         0,
			OverlaysAll:       true,
			GalleryZipEnabled: true,
		}
	case Pro:
		return Defaults{
			PhotoCap:            intPtr(500),
			AICredits:           100,
			OverlaysAll:         true,
			PremiumFilters:      true,
			SMSEnabled:          true,
			AllowAIBackgrounds:  true,
			GalleryZipEnabled:   true,
			CanAddCollaborators: true,
		}
	case Studio:
		return Defaults{
			PhotoCap:            nil,
			AICredits:           1000,
			OverlaysAll:         true,
			PremiumFilters:      true,
			SMSEnabled:          true,
			AllowAIBackgrounds:  true,
			GalleryZipEnabled:   true,
			CanAddCollaborators: true,
		}
	default:
		return Defaults{
			PhotoCap:         intPtr(25),
			AICredits:        0,
			WatermarkEnabled: true,
		}
	}
}

func intPtr(v int) *int {
	return &v
}
