package abap

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedLanguage    = errors.New("language not supported")
	ErrUnknownTarget          = errors.New("unknown render target")
	ErrUnknownObject          = errors.New("unknown ABAP object")
	ErrDestinationUnreachable = errors.New("destination unreachable")
	ErrMalformedCatalog       = errors.New("malformed catalog")
)

// ErrorKind classifies a failure by the pipeline stage that produced it.
type ErrorKind string

const (
	KindConfig     ErrorKind = "config"
	KindFetch      ErrorKind = "fetch"
	KindRender     ErrorKind = "render"
	KindFilesystem ErrorKind = "filesystem"
)

// EntryError is the failure of a single worklist entry.
type EntryError struct {
	Name string
	Kind ErrorKind
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Name, e.Kind, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// ConfigExistsError is returned when installing a UI configuration would
// replace a document the user already has locally.
type ConfigExistsError struct {
	Path string
}

func (e *ConfigExistsError) Error() string {
	return "Remove local configuration first: " + e.Path
}

// KindOf reports the ErrorKind carried by err, or KindRender when err
// carries none.
func KindOf(err error) ErrorKind {
	var ee *EntryError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	switch {
	case errors.Is(err, ErrUnsupportedLanguage), errors.Is(err, ErrMalformedCatalog):
		return KindConfig
	case errors.Is(err, ErrUnknownObject), errors.Is(err, ErrDestinationUnreachable):
		return KindFetch
	}
	return KindRender
}
