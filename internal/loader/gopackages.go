package loader

import (
	"context"
	"fmt"
	"go/token"
	"path/filepath"
	"sort"

	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedImports |
	packages.NeedTypes | packages.NeedTypesSizes | packages.NeedSyntax | packages.NeedTypesInfo

// Load type-checks every package below dir using go/packages.
func (s *Service) Load(ctx context.Context, dir string) (*LoadResult, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	pkgs, err := packages.Load(&packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     absDir,
		Fset:    fset,
	}, "./...")
	if err != nil {
		return nil, fmt.Errorf("failed to load packages in %s: %w", absDir, err)
	}

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			return nil, fmt.Errorf("package %s: %w", pkg.PkgPath, e)
		}
	}

	result := &LoadResult{
		Fset:     fset,
		Packages: pkgs,
	}

	s.walkPackages(absDir, pkgs, result)

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	s.debug.Printf("loaded %d packages, %d files from %s", len(pkgs), len(result.Files), absDir)

	return result, nil
}

// walkPackages records the syntax of root packages that survive the filters.
func (s *Service) walkPackages(root string, pkgs []*packages.Package, result *LoadResult) {
	for _, pkg := range pkgs {
		if s.skipPackageByPrefix(pkg.PkgPath) {
			s.debug.Printf("skip package %s", pkg.PkgPath)
			continue
		}

		for i, file := range pkg.CompiledGoFiles {
			if i >= len(pkg.Syntax) {
				break
			}
			if s.shouldSkipFile(file) || s.inSkippedDir(root, file) {
				continue
			}

			result.Files = append(result.Files, &AstFileInfo{
				File:    pkg.Syntax[i],
				Path:    file,
				Package: pkg,
			})
		}
	}
}
