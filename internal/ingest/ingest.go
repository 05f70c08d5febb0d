package ingest

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"
)

// MaxFileBytes is the upper bound for an accepted resume file.
const MaxFileBytes = 10 << 20

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
)

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
}

// Candidate describes a locally selected file before validation. Open is
// deferred so validation never reads content; the extraction call streams
// it later.
type Candidate struct {
	Name     string
	Size     int64
	MimeHint string
	Open     func() (io.ReadCloser, error)
}

// File is an accepted upload descriptor. Replaced wholesale on each new
// selection, never partially mutated.
type File struct {
	Name     string
	Size     int64
	MimeHint string
	Open     func() (io.ReadCloser, error)
}

// ValidationError carries the user-facing reason a candidate was rejected.
type ValidationError struct {
	Reason  error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Reason }

// Accept validates a candidate by extension and size. It has no side
// effects beyond returning the descriptor.
func Accept(c Candidate) (File, error) {
	ext := strings.ToLower(filepath.Ext(c.Name))
	if _, ok := allowedExtensions[ext]; !ok {
		return File{}, &ValidationError{
			Reason:  ErrUnsupportedType,
			Message: "Please upload a PDF or DOCX file",
		}
	}
	if c.Size > MaxFileBytes {
		return File{}, &ValidationError{
			Reason:  ErrTooLarge,
			Message: fmt.Sprintf("File size exceeds %s limit", units.BytesSize(MaxFileBytes)),
		}
	}
	return File{
		Name:     c.Name,
		Size:     c.Size,
		MimeHint: c.MimeHint,
		Open:     c.Open,
	}, nil
}
