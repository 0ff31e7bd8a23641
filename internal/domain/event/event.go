package event

import (
	"time"

	"booth-service/internal/domain/plan"
)

// CurrentSchemaVersion is written on every stored event. Records with a lower
// version are upcast by WithDefaults when loaded.
const CurrentSchemaVersion = 1

type Mode string

const (
	ModeSelfServe    Mode = "self-serve"
	ModePhotographer Mode = "photographer"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusLive   Status = "live"
	StatusClosed Status = "closed"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type Features struct {
	BackgroundRemoval bool `json:"backgroundRemoval"`
	AIBackgrounds     bool `json:"aiBackgrounds"`
	AIFilters         bool `json:"aiFilters"`
	SMS               bool `json:"sms"`
	Watermark         bool `json:"watermark"`
	GalleryVisible    bool `json:"galleryVisible"`
	GalleryZip        bool `json:"galleryZip"`
	OverlaysAll       bool `json:"overlaysAll"`
}

type Roles struct {
	Collaborators []string `json:"collaborator"`
}

type Background struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key,omitempty"`
	URL  string `json:"url,omitempty"`
}

type Event struct {
	SchemaVersion  int           `json:"schemaVersion"`
	ID             string        `json:"id"`
	OwnerID        string        `json:"ownerId"`
	Slug           string        `json:"slug"`
	Name           string        `json:"name"`
	Mode           Mode          `json:"mode"`
	Status         Status        `json:"status"`
	Plan           plan.ID       `json:"plan"`
	PhotoCap       *int          `json:"photoCap"`
	PhotoUsed      int           `json:"photoUsed"`
	AICredits      *int          `json:"aiCredits,omitempty"`
	AIUsed         int           `json:"aiUsed"`
	Features       *Features     `json:"features,omitempty"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	Roles          Roles         `json:"roles"`
	EventDate      *time.Time    `json:"eventDate,omitempty"`
	Backgrounds    []Background  `json:"backgrounds,omitempty"`
	SelectionLimit int           `json:"selectionLimit,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// WithDefaults returns a copy of e upcast to CurrentSchemaVersion. Version 0
// records get missing caps and features from their plan; every version gets
// its enums and plan id normalised. Applying it twice yields the same record.
func WithDefaults(e Event) Event {
	e.Plan = plan.Normalize(string(e.Plan))
	defaults := plan.DefaultsFor(e.Plan)

	if e.SchemaVersion < 1 {
		if e.PhotoCap == nil {
			e.PhotoCap = defaults.PhotoCap
		}
		e.SchemaVersion = 1
	}

	if e.AICredits == nil {
		credits := defaults.AICredits
		e.AICredits = &credits
	}
	if e.Features == nil {
		features := FeaturesFor(defaults)
		e.Features = &features
	}

	switch e.Mode {
	case ModeSelfServe, ModePhotographer:
	default:
		e.Mode = ModeSelfServe
	}
	switch e.Status {
	case StatusDraft, StatusLive, StatusClosed:
	default:
		e.Status = StatusDraft
	}
	switch e.PaymentStatus {
	case PaymentUnpaid, PaymentPending, PaymentPaid:
	default:
		e.PaymentStatus = PaymentUnpaid
	}

	if e.Roles.Collaborators == nil {
		e.Roles.Collaborators = []string{}
	}
	if e.PhotoUsed < 0 {
		e.PhotoUsed = 0
	}
	if e.AIUsed < 0 {
		e.AIUsed = 0
	}
	return e
}

func FeaturesFor(d plan.Defaults) Features {
	return Features{
		BackgroundRemoval: true,
		AIBackgrounds:     d.AllowAIBackgrounds,
		AIFilters:         d.PremiumFilters,
		SMS:               d.SMSEnabled,
		Watermark:         d.WatermarkEnabled,
		GalleryVisible:    true,
		GalleryZip:        d.GalleryZipEnabled,
		OverlaysAll:       d.OverlaysAll,
	}
}

// ApplyPlan switches e to id and resets caps and features to that plan's
// defaults. Usage counters are kept.
func ApplyPlan(e Event, id plan.ID) Event {
	e.Plan = plan.Normalize(string(id))
	defaults := plan.DefaultsFor(e.Plan)
	credits := defaults.AICredits
	features := FeaturesFor(defaults)
	e.PhotoCap = defaults.PhotoCap
	e.AICredits = &credits
	e.Features = &features
	return WithDefaults(e)
}

func (e *Event) CreditCap() int {
	if e.AICredits == nil {
		return plan.DefaultsFor(e.Plan).AICredits
	}
	return *e.AICredits
}

// ExpiredAt reports whether the event is past its retention window.
func (e *Event) ExpiredAt(now time.Time, retention time.Duration) bool {
	if e.EventDate == nil {
		return false
	}
	return now.After(e.EventDate.Add(retention))
}

func (e *Event) IsCollaborator(userID string) bool {
	for _, id := range e.Roles.Collaborators {
		if id == userID {
			return true
		}
	}
	return false
}

func (e *Event) HasAccess(userID string) bool {
	return userID != "" && (e.OwnerID == userID || e.IsCollaborator(userID))
}
