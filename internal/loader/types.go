package loader

import (
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/packages"
)

// Service handles loading Go packages and their AST files
type Service struct {
	parseVendor   bool
	excludes      map[string]struct{}
	packagePrefix []string
	debug         Debugger
}

// Debugger interface for logging
type Debugger interface {
	Printf(format string, v ...interface{})
}

// LoadResult contains the results of loading packages
type LoadResult struct {
	Fset     *token.FileSet
	Packages []*packages.Package

	// Files are the documented source files, sorted by path.
	Files []*AstFileInfo
}

// AstFileInfo contains information about a parsed AST file
type AstFileInfo struct {
	File    *ast.File
	Path    string
	Package *packages.Package
}

// Option is a functional option for configuring Service
type Option func(*Service)

// noOpDebugger is a no-op debugger
type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}
