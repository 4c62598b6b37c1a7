package attachment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks every validation failure. It is raised before any network call.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingFile means no file (or no file name) was supplied.
	ErrMissingFile = fmt.Errorf("%w: file is required", ErrInvalidInput)
	// ErrFileTooLarge means the file exceeds the policy ceiling.
	ErrFileTooLarge = fmt.Errorf("%w: file too large", ErrInvalidInput)
	// ErrUnsupportedType means the MIME type is not on the policy allow-list.
	ErrUnsupportedType = fmt.Errorf("%w: unsupported file type", ErrInvalidInput)
)

// BatchError reports a partially completed AddFiles call. Files in Uploaded
// were written to the object store before Failed was rejected and are not
// rolled back.
type BatchError struct {
	Uploaded []Meta
	Failed   string
	Err      error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("upload %q failed after %d file(s): %v", e.Failed, len(e.Uploaded), e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
