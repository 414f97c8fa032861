package field

// Naming strategy constants
const (
	// CamelCase indicates using CamelCase strategy for struct field.
	CamelCase = "camelcase"
	// PascalCase indicates using PascalCase strategy for struct field.
	PascalCase = "pascalcase"
	// SnakeCase indicates using SnakeCase strategy for struct field.
	SnakeCase = "snakecase"
)

// Tag names
const (
	requiredLabel  = "required"
	omitEmptyLabel = "omitempty"
	jsonTag        = "json"
	validateTag    = "validate"
	exampleTag     = "example"
	descriptionTag = "description"
	datetimeTag    = "datetime"
)

// UTF-8 special character codes
const (
	utf8HexComma = "0x2C"
	utf8Pipe     = "0x7C"
)

// DirectivePrefix starts every apidoc doc-comment directive.
const DirectivePrefix = "//apidoc:"

// Directive names.
const (
	DirectiveSchema   = "schema"
	DirectiveEnum     = "enum"
	DirectiveProperty = "property"
	DirectiveDateTime = "datetime"
)
