package propertyaccess

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnsupportedItemShape = errors.New("propertyaccess: unsupported item shape")
	ErrPropertyWriteFailed  = errors.New("propertyaccess: property write failed")
)

// PropertyWriteFailedError is returned when no configured accessor could
// write the property.
type PropertyWriteFailedError struct {
	Property string
}

func (e *PropertyWriteFailedError) Error() string {
	return fmt.Sprintf("propertyaccess: property \"%s\" could not be set", e.Property)
}

func (e *PropertyWriteFailedError) Is(target error) bool {
	return target == ErrPropertyWriteFailed
}

func unsupported(accessor string, item any) error {
	return errors.Wrapf(ErrUnsupportedItemShape, "%s accessor cannot handle %T", accessor, item)
}
