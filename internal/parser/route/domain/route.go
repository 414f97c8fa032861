// Package domain contains domain models for route parsing.
package domain

// Response kinds of the @success annotation.
const (
	KindSingle     = "single"
	KindCollection = "collection"
	KindPaginated  = "paginated"
	KindCreated    = "created"
	KindUpdated    = "updated"
	KindEmpty      = "empty"
)

// Route represents a parsed HTTP route with all its metadata
type Route struct {
	// Controller is the receiver type of the handler, empty for plain functions.
	Controller string

	// Action is the handler function name.
	Action string

	// HTTP method (GET, POST, PUT, DELETE, etc.)
	Method string

	// URL path (e.g., "/users/{id}")
	Path string

	// Summary is a short description of the route
	Summary string

	// Description is a longer explanation
	Description string

	// Tags for grouping routes
	Tags []string

	// Parameters holds path parameters first, in path order, then the
	// remaining @param declarations.
	Parameters []Parameter

	// Success describes the success response.
	Success Success

	// Request is the request body type name, empty without a body.
	Request string

	// Errors narrows the default error statuses.
	Errors ErrorFilter

	// Deprecated indicates if the route is deprecated
	Deprecated bool

	// OperationID is a unique identifier for the operation
	OperationID string

	// FilePath where this route was defined
	FilePath string

	// PackageName of the file, used to qualify type names
	PackageName string

	// LineNumber where the route is defined
	LineNumber int
}

// Success is the parsed @success annotation.
type Success struct {
	// Kind is one of the Kind constants.
	Kind string

	// Type is the schema type name, empty for an untyped or empty body.
	Type string

	// Envelope replaces the default envelope with a component schema.
	Envelope string

	Description string
}

// ErrorFilter is the parsed @errors annotation. Only wins over Except.
type ErrorFilter struct {
	Only   []int
	Except []int
}

// Parameter represents a route parameter
type Parameter struct {
	// Name of the parameter
	Name string

	// In specifies where the parameter is located (path, query, header)
	In string

	// Type of the parameter (string, integer, number, boolean, array)
	Type string

	// Required indicates if the parameter is mandatory
	Required bool

	// Description of the parameter
	Description string

	// Items for array types
	Items *Items

	// Default value
	Default interface{}

	// Format (e.g., "int32", "date-time")
	Format string

	// Enum values
	Enum []interface{}

	// Minimum value (for numbers)
	Minimum *float64

	// Maximum value (for numbers)
	Maximum *float64

	// MinLength (for strings)
	MinLength *float64

	// MaxLength (for strings)
	MaxLength *float64
}

// Items describes the items in an array parameter
type Items struct {
	// Type of array items
	Type string

	// Format of array items
	Format string
}
