package analyze

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeNotFound is returned when a package has no type of the requested name.
	ErrTypeNotFound = errors.New("type not found")
	// ErrNotStruct is returned for named types whose underlying type is not a struct.
	ErrNotStruct = errors.New("not a struct type")
	// ErrPackageNotFound is returned when a package cannot be loaded.
	ErrPackageNotFound = errors.New("package not found")
)

// SchemaError reports a type that cannot be introspected.
type SchemaError struct {
	Type string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: %v", e.Type, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

func schemaError(id TypeID, err error) *SchemaError {
	return &SchemaError{Type: id.String(), Err: err}
}
