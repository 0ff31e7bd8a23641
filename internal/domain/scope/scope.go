package scope

import (
	"path"
	"strings"
)

const (
	CollectionEvents        = "events"
	CollectionProduction    = "production"
	CollectionSelections    = "selections"
	CollectionCheckins      = "checkins"
	CollectionNotifications = "notifications"
	CollectionPhotos        = "photos"
	CollectionAudit         = "audit"
)

// TenantScope identifies one owner's event. It is resolved per request and
// is the only way to address tenant documents or objects.
type TenantScope struct {
	OwnerID   string
	EventID   string
	EventSlug string
	EventName string
}

// Valid reports whether both ids can be used as key segments unchanged.
func (s TenantScope) Valid() bool {
	return ValidID(s.OwnerID) && ValidID(s.EventID)
}

// ValidID rejects ids that would be altered when turned into a key segment,
// so two distinct ids never share a subtree.
func ValidID(id string) bool {
	return id != "" && cleanSegment(id) == id
}

// DocumentKey addresses a per-event collection document.
func (s TenantScope) DocumentKey(collection string) string {
	return cleanSegment(s.OwnerID) + "/" + cleanSegment(s.EventID) + "/" + collection
}

// ObjectPrefix is the object store subtree for this event.
func (s TenantScope) ObjectPrefix(globalPrefix string) string {
	return path.Join(strings.Trim(globalPrefix, "/"), cleanSegment(s.OwnerID), cleanSegment(s.EventID))
}

// EventsKey addresses the owner's events index.
func EventsKey(ownerID string) string {
	return cleanSegment(ownerID) + "/" + CollectionEvents
}

func cleanSegment(v string) string {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, "/", "")
	v = strings.ReplaceAll(v, "\\", "")
	if v == "." || v == ".." {
		return ""
	}
	return v
}
