package storage

import "fmt"

// FileNotFoundError is returned when the local file to upload does not exist.
type FileNotFoundError struct {
	Path  string
	Cause error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("upload error: file not found at %s", e.Path)
}

func (e *FileNotFoundError) Unwrap() error {
	return e.Cause
}

// CredentialsError is returned when no usable object store credentials are available.
type CredentialsError struct {
	Message string
	Cause   error
}

func (e *CredentialsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upload error: credentials unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("upload error: credentials unavailable: %s", e.Message)
}

func (e *CredentialsError) Unwrap() error {
	return e.Cause
}

// UploadError represents any other object store failure.
type UploadError struct {
	Message string
	Bucket  string
	Key     string
	Code    string
	Cause   error
}

func (e *UploadError) Error() string {
	msg := fmt.Sprintf("upload error: %s (s3://%s/%s)", e.Message, e.Bucket, e.Key)
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}
