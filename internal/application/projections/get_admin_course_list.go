package projections

import (
	"context"
	"errors"

	"learninghub/internal/adapters/docstore"
	"learninghub/internal/domain/course"
)

// GetAdminCourseListResult carries the query result for the admin panel.
type GetAdminCourseListResult struct {
	Courses []course.Course

	// Degraded mirrors the dashboard behavior: the panel renders with an
	// empty table and an error banner instead of failing the request.
	Degraded bool
}

// GetAdminCourseListDeps holds dependencies for the admin course list.
type GetAdminCourseListDeps struct {
	CourseStore DashboardCourseStore
}

// QueryGetAdminCourseList retrieves every course, newest first, for the
// admin management table.
// PRE: the caller has already been verified as the administrator
// POST: a store outage yields a Degraded result, never an error
func QueryGetAdminCourseList(ctx context.Context, deps GetAdminCourseListDeps) (GetAdminCourseListResult, error) {
	courses, err := deps.CourseStore.ListAll(ctx)
	if err != nil {
		if errors.Is(err, docstore.ErrUnavailable) {
			return GetAdminCourseListResult{Degraded: true}, nil
		}
		return GetAdminCourseListResult{}, err
	}
	return GetAdminCourseListResult{Courses: courses}, nil
}
