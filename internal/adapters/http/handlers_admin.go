package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/csrf"

	"learninghub/internal/adapters/docstore"
	courseStore "learninghub/internal/adapters/storage/course"
	"learninghub/internal/application/projections"
	courseDomain "learninghub/internal/domain/course"
)

// writeCourseError maps domain and store failures to HTTP status codes.
// Validation problems are the client's fault; a store outage is a 503 the
// client can retry.
func writeCourseError(w http.ResponseWriter, err error) {
	var verr *courseDomain.ValidationError
	switch {
	case errors.As(err, &verr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": verr.Error(),
			"field": verr.Field,
		})
	case errors.Is(err, docstore.ErrNotFound):
		http.Error(w, "course not found", http.StatusNotFound)
	case errors.Is(err, docstore.ErrUnavailable):
		http.Error(w, "course store unavailable", http.StatusServiceUnavailable)
	default:
		internalError(w, err)
	}
}

// handleAdminPage renders the course management panel for GET /admin.
// The RequireAdmin guard has already run; no record is fetched before it.
// A rejected form submission arrives back here via redirect query parameters;
// the error is rendered inline and the form re-filled with the rejected
// values, so the submission is only cleared on confirmed success.
func handleAdminPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	deps := projections.GetAdminCourseListDeps{CourseStore: stores.CourseStore}
	result, err := projections.QueryGetAdminCourseList(r.Context(), deps)
	if err != nil {
		internalError(w, err)
		return
	}

	q := r.URL.Query()
	data := map[string]any{
		"CSRFToken":  csrf.Token(r),
		"Courses":    result.Courses,
		"Categories": courseDomain.KnownCategories,
		"Form": map[string]string{
			"ID":          q.Get("id"),
			"Title":       q.Get("title"),
			"Description": q.Get("description"),
			"VideoRef":    q.Get("videoRef"),
			"Duration":    q.Get("duration"),
			"Level":       q.Get("level"),
			"Category":    q.Get("category"),
		},
	}
	if result.Degraded {
		data["Error"] = "The course store is temporarily unavailable."
	} else if msg := q.Get("error"); msg != "" {
		data["Error"] = msg
	}
	renderTemplate(w, r, "admin_courses.html", data)
}

// adminRejectURL sends a failed form submission back to the panel with the
// error and the rejected values, so nothing the admin typed is lost.
func adminRejectURL(err error, id string, fields courseStore.Fields) string {
	q := url.Values{}
	q.Set("error", err.Error())
	if id != "" {
		q.Set("id", id)
	}
	q.Set("title", fields.Title)
	q.Set("description", fields.Description)
	q.Set("videoRef", fields.VideoRef)
	q.Set("duration", fields.Duration)
	q.Set("level", fields.Level)
	q.Set("category", fields.Category)
	return "/admin?" + q.Encode()
}

// courseFields reads course form fields from either a form post or a JSON body.
func courseFields(r *http.Request) (courseStore.Fields, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			VideoRef    string `json:"videoRef"`
			Duration    string `json:"duration"`
			Level       string `json:"level"`
			Category    string `json:"category"`
		}
		if err := strictDecode(r, &req); err != nil {
			return courseStore.Fields{}, err
		}
		return courseStore.Fields{
			Title:       req.Title,
			Description: req.Description,
			VideoRef:    req.VideoRef,
			Duration:    req.Duration,
			Level:       req.Level,
			Category:    req.Category,
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		return courseStore.Fields{}, err
	}
	return courseStore.Fields{
		Title:       r.FormValue("Title"),
		Description: r.FormValue("Description"),
		VideoRef:    r.FormValue("VideoRef"),
		Duration:    r.FormValue("Duration"),
		Level:       r.FormValue("Level"),
		Category:    r.FormValue("Category"),
	}, nil
}

// handleCourses handles GET (list) and POST (create) for /api/courses.
func handleCourses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		courses, err := stores.CourseStore.ListAll(ctx)
		if err != nil {
			writeCourseError(w, err)
			return
		}
		if courses == nil {
			courses = []courseDomain.Course{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(courses)
		return
	}

	if r.Method == "POST" {
		isForm := strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")

		fields, err := courseFields(r)
		if err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		id, err := stores.CourseStore.Create(ctx, fields)
		if err != nil {
			if isForm {
				http.Redirect(w, r, adminRejectURL(err, "", fields), http.StatusSeeOther)
				return
			}
			writeCourseError(w, err)
			return
		}

		if isForm {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": id})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleCourseByID handles POST/PUT (update) and DELETE for /api/courses/{id}.
// Deletes are idempotent: removing an already-removed course succeeds.
func handleCourseByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := strings.TrimPrefix(r.URL.Path, "/api/courses/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case "POST", "PUT":
		isForm := strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")

		fields, err := courseFields(r)
		if err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if err := stores.CourseStore.Update(ctx, id, fields); err != nil {
			if isForm {
				http.Redirect(w, r, adminRejectURL(err, id, fields), http.StatusSeeOther)
				return
			}
			writeCourseError(w, err)
			return
		}

		if isForm {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return

	case "DELETE":
		if err := stores.CourseStore.Delete(ctx, id); err != nil {
			writeCourseError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}
