package interfaces

import "io"

// FileManager stores uploaded objects, profile photos and message
// attachments, and returns the public URL of the stored object.
type FileManager interface {
	UploadFile(fileName string, file io.Reader, fileSize int64, contentType string, bucketName string) (string, error)
}
