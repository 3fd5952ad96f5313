package models

// File is an upload attached to a multipart request.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}
