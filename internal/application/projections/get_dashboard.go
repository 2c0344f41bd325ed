package projections

import (
	"context"
	"errors"
	"log/slog"

	"learninghub/internal/adapters/docstore"
	"learninghub/internal/domain/course"
)

// DashboardCourseStore defines the course store interface needed by the
// dashboard projection.
type DashboardCourseStore interface {
	ListAll(ctx context.Context) ([]course.Course, error)
}

// CategoryGrid is one titled row of the dashboard.
type CategoryGrid struct {
	Category string
	Courses  []course.Course
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Grids []CategoryGrid
	Total int

	// Degraded is set when the store could not be reached. The page still
	// renders, with empty grids and an error banner.
	Degraded bool
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	CourseStore DashboardCourseStore
}

// QueryGetDashboard fetches the catalog once and partitions it into
// per-category grids in a fixed display order.
// PRE: none
// POST: a store outage yields a Degraded result with empty grids, never an
// error; a record appears in at most one grid
func QueryGetDashboard(ctx context.Context, deps GetDashboardDeps) (DashboardResult, error) {
	courses, err := deps.CourseStore.ListAll(ctx)
	if err != nil {
		if errors.Is(err, docstore.ErrUnavailable) {
			slog.Warn("dashboard_event", "event", "store_unavailable", "error", err)
			return DashboardResult{Grids: emptyGrids(), Degraded: true}, nil
		}
		return DashboardResult{}, err
	}

	partitioned := course.PartitionByCategory(courses, course.KnownCategories)
	result := DashboardResult{Total: len(courses)}
	for _, cat := range course.KnownCategories {
		result.Grids = append(result.Grids, CategoryGrid{Category: cat, Courses: partitioned[cat]})
	}
	return result, nil
}

func emptyGrids() []CategoryGrid {
	grids := make([]CategoryGrid, 0, len(course.KnownCategories))
	for _, cat := range course.KnownCategories {
		grids = append(grids, CategoryGrid{Category: cat})
	}
	return grids
}
