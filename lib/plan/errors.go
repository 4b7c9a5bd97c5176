package plan

import (
	"errors"
	"fmt"
)

// Sentinel errors for record configuration problems. Build always returns
// them wrapped in an *Error naming the record and field.
var (
	ErrNoTag            = errors.New("no tag: set `view:\"<tag>\"` on the record marker or mark a field `view:\",dynamictag\"`")
	ErrTagConflict      = errors.New("more than one tag source")
	ErrTagShape         = errors.New("dynamic tag field must implement propview.Tagger (or mark the record anytag)")
	ErrUnknownTag       = errors.New("tag is not in the allowed vocabulary")
	ErrUnclassifiable   = errors.New("unclassifiable field")
	ErrEventShape       = errors.New("event field is not a callback")
	ErrChildrenConflict = errors.New("record is marked nochildren but declares a Children field")
	ErrDuplicate        = errors.New("duplicate name")
	ErrBadAnnotation    = errors.New("bad view annotation")
	ErrNoMarker         = errors.New("struct has no propview.Record marker field")
)

// Error is a build-time configuration error.
type Error struct {
	Type   string
	Field  string
	Err    error
	Detail string
}

func (e *Error) Error() string {
	where := e.Type
	if e.Field != "" {
		where += "." + e.Field
	}
	if e.Detail != "" {
		return fmt.Sprintf("propview: %s: %v: %s", where, e.Err, e.Detail)
	}
	return fmt.Sprintf("propview: %s: %v", where, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(typ, field string, err error, format string, args ...any) *Error {
	return &Error{Type: typ, Field: field, Err: err, Detail: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is a record configuration error.
func IsConfigError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
