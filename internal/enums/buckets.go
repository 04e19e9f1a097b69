package enums

const (
	FILE_BUCKET_USER_PROFILE = "user-profiles"
	FILE_BUCKET_ATTACHMENTS  = "message-attachments"
)
