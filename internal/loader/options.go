package loader

// NewService creates a new loader service with optional configuration
func NewService(options ...Option) *Service {
	s := &Service{
		parseVendor:   false,
		excludes:      make(map[string]struct{}),
		packagePrefix: []string{},
		debug:         &noOpDebugger{},
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// WithParseVendor sets whether to parse vendor directories
func WithParseVendor(parse bool) Option {
	return func(s *Service) {
		s.parseVendor = parse
	}
}

// WithExcludes sets directory exclusion patterns
func WithExcludes(excludes map[string]struct{}) Option {
	return func(s *Service) {
		s.excludes = excludes
	}
}

// WithPackagePrefix sets package path prefixes to filter
func WithPackagePrefix(prefixes []string) Option {
	return func(s *Service) {
		s.packagePrefix = prefixes
	}
}

// WithDebugger sets the debugger for logging
func WithDebugger(debugger Debugger) Option {
	return func(s *Service) {
		s.debug = debugger
	}
}
