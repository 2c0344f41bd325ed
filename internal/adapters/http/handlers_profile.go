package web

import (
	"net/http"

	"github.com/gorilla/csrf"

	"learninghub/internal/adapters/http/middleware"
	profileDomain "learninghub/internal/domain/profile"
)

// handleProfile handles GET (view/edit form) and POST (save) for /profile.
// The profile is store-backed: it follows the account across browsers.
func handleProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if r.Method == "GET" {
		p, found, err := stores.ProfileStore.Get(r.Context(), session.AccountID)
		if err != nil {
			internalError(w, err)
			return
		}
		if !found {
			// First visit: prefill from the session, placeholder avatar.
			p = profileDomain.Profile{DisplayName: session.DisplayName}
		}
		renderTemplate(w, r, "profile.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Profile":   p,
			"AvatarURL": p.Avatar(),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		p := profileDomain.Profile{
			DisplayName: r.FormValue("DisplayName"),
			AvatarURL:   r.FormValue("AvatarURL"),
			Bio:         r.FormValue("Bio"),
		}
		if err := stores.ProfileStore.Save(r.Context(), session.AccountID, p); err != nil {
			renderTemplate(w, r, "profile.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Profile":   p,
				"AvatarURL": p.Avatar(),
				"Error":     err.Error(),
			})
			return
		}

		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}
