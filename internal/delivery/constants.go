package delivery

const (
	paramEmail = "email"
	paramFiles = "files"

	msgSetNotFound         = "production set not found"
	msgFileNotFound        = "file not found in this delivery"
	msgUploadFailed        = "failed to store delivery files"
	msgFetchFailed         = "failed to read delivery file"
	msgTokenFailed         = "failed to generate download token"
	msgBundleFailed        = "failed to build delivery bundle"
	msgSendFailed          = "failed to send delivery email"
	msgEmptyAttachmentFmt  = "attachment %q is empty"
	msgNotifierUnavailable = "email delivery is not configured"

	bundleContentType = "application/zip"
	duplicateNameFmt  = "%s-%d%s"
)
