package core

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound     = errors.New("file not found")
	ErrMalformedRecord  = errors.New("malformed record")
	ErrUnknownMaterial  = errors.New("unknown material")
	ErrDegenerateMesh   = errors.New("degenerate mesh")
	ErrNoActiveMesh     = errors.New("no active mesh")
	ErrBackendRejected  = errors.New("renderer backend rejected geometry")
	ErrWatcherClosed    = errors.New("asset watcher already closed")
	ErrUnknownAssetType = errors.New("unknown asset type")
)

// RecordError reports a failure tied to one line of an asset file.
// Err is always one of the sentinels above.
type RecordError struct {
	Path   string
	Line   int
	Tag    string
	Reason string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("%s:%d: %v: %s", e.Path, e.Line, e.Err, e.Reason)
	}
	return fmt.Sprintf("%s:%d: %v in '%s': %s", e.Path, e.Line, e.Err, e.Tag, e.Reason)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
