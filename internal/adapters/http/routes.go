package web

import (
	"net/http"

	"learninghub/internal/adapters/http/middleware"
)

// registerRoutes attaches every application route to the mux. Route-level
// guards live here; handlers can assume them.
func registerRoutes(mux *http.ServeMux) {
	// Public
	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/register", handleRegister)
	mux.HandleFunc("/logout", handleLogout)

	// Authenticated pages
	mux.Handle("/dashboard", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("/watch", middleware.RequireAuth(http.HandlerFunc(handleWatch)))
	mux.Handle("/profile", middleware.RequireAuth(http.HandlerFunc(handleProfile)))
	mux.Handle("/change-password", middleware.RequireAuth(http.HandlerFunc(handleChangePassword)))

	// Theme preference (works logged out too; the choice is per browser)
	mux.HandleFunc("/api/theme", handleTheme)

	// Preview playback
	mux.Handle("/api/preview/start", middleware.RequireAuth(http.HandlerFunc(handlePreviewStart)))
	mux.Handle("/api/preview/close", middleware.RequireAuth(http.HandlerFunc(handlePreviewClose)))

	// Admin panel and course management, gated on the configured admin email
	adminOnly := middleware.RequireAdmin(config.AdminEmail)
	mux.Handle("/admin", adminOnly(http.HandlerFunc(handleAdminPage)))
	mux.Handle("/api/courses", adminOnly(http.HandlerFunc(handleCourses)))
	mux.Handle("/api/courses/", adminOnly(http.HandlerFunc(handleCourseByID)))
}
