package tenant

const (
	paramEvent = "event"

	maxSlugLength          = 64
	backgroundCacheControl = "public, max-age=86400"

	errCallerRequired       = "authentication required"
	errEventNotFound        = "event not found"
	errInvalidCaller        = "invalid caller identity"
	errSlugTaken            = "an event with this slug already exists"
	errEventNameRequired    = "event name is required"
	errInvalidSlug          = "slug must contain letters or digits"
	errInvalidStatus        = "invalid event status"
	errInvalidPlan          = "invalid plan"
	errInvalidPaymentStatus = "invalid payment status"
	errCollaboratorIsOwner  = "the owner cannot be added as a collaborator"
	errCollaboratorRequired = "collaborator user id is required"
	errBackgroundUpload     = "failed to upload background"
	errBackgroundEmpty      = "background image is empty"
)
