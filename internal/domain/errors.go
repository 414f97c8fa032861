package domain

import "fmt"

// MissingEnumOptInError is returned when a schema references an enum that
// has not been marked with the enum directive.
type MissingEnumOptInError struct {
	Enum     string
	Class    string
	Property string
}

func (e *MissingEnumOptInError) Error() string {
	return fmt.Sprintf("enum %s used by %s.%s is not documentable: add a //apidoc:enum directive to its type declaration",
		e.Enum, e.Class, e.Property)
}

// UndefinedComputedFieldError is returned in strict mode for a serialized
// field whose type cannot be inferred and has no override.
type UndefinedComputedFieldError struct {
	Field string
	Class string
}

func (e *UndefinedComputedFieldError) Error() string {
	return fmt.Sprintf("computed field %q of %s has no inferable type: declare it with //apidoc:property %s type=<type>",
		e.Field, e.Class, e.Field)
}

// ReflectionFailureError is returned when a type cannot be introspected.
type ReflectionFailureError struct {
	Class string
	Err   error
}

func (e *ReflectionFailureError) Error() string {
	return fmt.Sprintf("cannot reflect %s: %v", e.Class, e.Err)
}

func (e *ReflectionFailureError) Unwrap() error {
	return e.Err
}

// NameCollisionError is returned when two distinct types map to the same
// schema name.
type NameCollisionError struct {
	Name     string
	Existing string
	Incoming string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("schema name %q is used by both %s and %s", e.Name, e.Existing, e.Incoming)
}
