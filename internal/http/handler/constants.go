package handler

const (
	jsonKeyMessage = "message"

	paramSlug         = "slug"
	paramOwnerID      = "owner_id"
	paramEventID      = "event_id"
	paramID           = "id"
	paramUserID       = "user_id"
	paramPhotoID      = "photo_id"
	paramFilename     = "filename"
	paramToken        = "token"
	queryToken        = "token"
	formEmail         = "email"
	formFile          = "file"
	formFiles         = "files"
	formName          = "name"
	headerDisposition = "Content-Disposition"
	dispositionFmt    = `attachment; filename="%s"`
)

const (
	msgContentTypeJSONRequired = "content type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidMultipart        = "invalid multipart form"
	msgFileRequired            = "at least one file is required"
	msgFileTooLarge            = "file exceeds the upload size limit"
	msgFileReadFailed          = "failed to read uploaded file"
	msgInvalidEventDate        = "eventDate must be RFC 3339"
	msgEventDeleted            = "event deleted"
	msgDeliveryResent          = "delivery email sent"
	msgCheckinDeleted          = "checkin deleted"
	msgNotificationCleared     = "notification cleared"
	msgPaymentRecorded         = "payment status recorded"
)
