package web

import (
	"encoding/json"
	"net/http"

	"learninghub/internal/adapters/http/middleware"
	"learninghub/internal/application/player"
	"learninghub/internal/application/projections"
	"learninghub/internal/domain/video"
)

// handleDashboard renders the category grids for /dashboard.
// A store outage degrades to empty grids with an error banner; the page
// itself always renders.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	deps := projections.GetDashboardDeps{CourseStore: stores.CourseStore}
	result, err := projections.QueryGetDashboard(r.Context(), deps)
	if err != nil {
		internalError(w, err)
		return
	}

	data := map[string]any{
		"Grids": result.Grids,
		"Total": result.Total,
	}
	if result.Degraded {
		data["Error"] = "The course catalog is temporarily unavailable. Please try again shortly."
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "dashboard.html", data)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleWatch renders the playback page for /watch?id=<courseID>.
func handleWatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	courseID := r.URL.Query().Get("id")
	if courseID == "" {
		http.Error(w, "missing course id", http.StatusBadRequest)
		return
	}

	courses, err := stores.CourseStore.ListAll(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	for _, c := range courses {
		if c.ID != courseID {
			continue
		}
		data := map[string]any{
			"Course":    c,
			"Thumbnail": c.ThumbnailURL(),
			"Playable":  c.Playable(),
		}
		if c.Playable() {
			data["EmbedURL"] = video.EmbedURL(c.VideoID)
			data["PreviewEmbedURL"] = video.PreviewEmbedURL(c.VideoID, int(player.PreviewDuration.Seconds()))
		}
		renderTemplate(w, r, "watch.html", data)
		return
	}
	http.NotFound(w, r)
}

// handlePreviewStart handles POST /api/preview/start. The preview closes
// itself after the preview duration unless replaced or closed first.
func handlePreviewStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		VideoRef string `json:"videoRef"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	videoID, err := video.Extract(req.VideoRef)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token := middleware.SessionTokenFromRequest(r)
	if token == "" {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}
	previews.Start(token, videoID)

	w.Header().Set("Content-Type", "application/json")
	previewSeconds := int(player.PreviewDuration.Seconds())
	json.NewEncoder(w).Encode(map[string]any{
		"embedUrl":  video.PreviewEmbedURL(videoID, previewSeconds),
		"closesInS": previewSeconds,
	})
}

// handlePreviewClose handles POST /api/preview/close. Closing with nothing
// playing is fine; the endpoint is idempotent.
func handlePreviewClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if token := middleware.SessionTokenFromRequest(r); token != "" {
		previews.Close(token)
	}
	w.WriteHeader(http.StatusNoContent)
}
