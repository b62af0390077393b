package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gelehaus/tryon/internal/domain"
)

// ListStyles handles GET /styles with optional category and featured filters.
func (a *App) ListStyles(w http.ResponseWriter, r *http.Request) {
	styles := a.Catalog.All()
	if c := strings.TrimSpace(r.URL.Query().Get("category")); c != "" {
		styles = a.Catalog.ByCategory(domain.Category(strings.ToLower(c)))
	}
	if f, err := strconv.ParseBool(r.URL.Query().Get("featured")); err == nil && f {
		featured := make([]domain.Style, 0, len(styles))
		for _, s := range styles {
			if s.Featured {
				featured = append(featured, s)
			}
		}
		styles = featured
	}
	if styles == nil {
		styles = []domain.Style{}
	}
	a.json(w, http.StatusOK, map[string]any{"styles": styles, "count": len(styles)})
}

// GetStyle handles GET /styles/{id}.
func (a *App) GetStyle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	style, ok := a.Catalog.Get(id)
	if !ok {
		a.error(w, http.StatusNotFound, "Style not found", map[string]string{"styleId": id})
		return
	}
	a.json(w, http.StatusOK, style)
}
