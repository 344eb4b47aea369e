package post

import (
	"errors"
	"fmt"
)

var (
	ErrSlugRequired   = errors.New("post: slug is required")
	ErrSlugInvalid    = errors.New("post: slug contains invalid characters")
	ErrSlugExists     = errors.New("post: slug already exists")
	ErrTitleRequired  = errors.New("post: title is required")
	ErrAuthorRequired = errors.New("post: author is required")
	ErrBodyRequired   = errors.New("post: body is required")
	ErrStatusInvalid  = errors.New("post: status invalid")
	ErrIDRequired     = errors.New("post: id required")
)

// NotFoundError reports a missing catalog record.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "post: not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
