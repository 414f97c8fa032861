package orchestrator

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/griffnb/core-apidoc/internal/loader"
	"github.com/griffnb/core-apidoc/internal/parser/route"
	routedomain "github.com/griffnb/core-apidoc/internal/parser/route/domain"
	"golang.org/x/sync/errgroup"
)

// fileRoutes pairs a file path with its parsed routes for deterministic ordering.
type fileRoutes struct {
	filePath string
	routes   []*routedomain.Route
}

// parseRoutesParallel parses routes from all files concurrently using an errgroup
// bounded by the number of CPUs. Results are merged in file path order and
// then sorted by path and method, so the output never depends on goroutine
// scheduling. Two handlers declaring the same route is an error.
func (s *Service) parseRoutesParallel(result *loader.LoadResult) ([]*routedomain.Route, error) {
	var (
		mu        sync.Mutex
		collected []fileRoutes
	)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, info := range result.Files {
		if info == nil || info.File == nil {
			continue
		}
		info := info

		g.Go(func() error {
			routes, err := s.routeParser.ParseRoutes(info.File, info.Path, result.Fset)
			if err != nil {
				return fmt.Errorf("failed to parse routes from %s: %w", info.Path, err)
			}
			if len(routes) == 0 {
				return nil
			}

			mu.Lock()
			collected = append(collected, fileRoutes{filePath: info.Path, routes: routes})
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].filePath < collected[j].filePath
	})

	var all []*routedomain.Route
	for _, fr := range collected {
		all = append(all, fr.routes...)
	}

	if err := route.SortRoutes(all); err != nil {
		return nil, err
	}
	return all, nil
}
