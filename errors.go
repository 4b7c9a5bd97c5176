package propview

import (
	"errors"

	"github.com/pthm/propview/lib/plan"
)

// Sentinel errors for record configuration. Compile and the generator wrap
// them in a *plan.Error naming the record and field.
var (
	ErrNoTag            = plan.ErrNoTag
	ErrTagConflict      = plan.ErrTagConflict
	ErrTagShape         = plan.ErrTagShape
	ErrUnknownTag       = plan.ErrUnknownTag
	ErrUnclassifiable   = plan.ErrUnclassifiable
	ErrEventShape       = plan.ErrEventShape
	ErrChildrenConflict = plan.ErrChildrenConflict
	ErrDuplicate        = plan.ErrDuplicate
	ErrBadAnnotation    = plan.ErrBadAnnotation
	ErrNoMarker         = plan.ErrNoMarker
)

// IsConfigError checks if err is a property record configuration error.
func IsConfigError(err error) bool {
	return plan.IsConfigError(err)
}

// IsTagError checks if err concerns the record's tag source.
func IsTagError(err error) bool {
	return errors.Is(err, ErrNoTag) || errors.Is(err, ErrTagConflict) ||
		errors.Is(err, ErrTagShape) || errors.Is(err, ErrUnknownTag)
}
