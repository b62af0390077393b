package handlers

import (
	"net/http"
	"strings"

	"github.com/gelehaus/tryon/internal/domain"
)

type mannequinRequest struct {
	StyleID string `json:"styleId" validate:"required"`
}

// ConvertMannequin handles POST /mannequins.
func (a *App) ConvertMannequin(w http.ResponseWriter, r *http.Request) {
	var req mannequinRequest
	if !a.decode(w, r, &req) {
		return
	}
	req.StyleID = strings.TrimSpace(req.StyleID)
	if err := a.validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, validationMessage(err), nil)
		return
	}
	if a.Mannequins == nil {
		a.fail(w, r, &domain.ConfigurationError{Component: "seedream", Message: "Mannequin API configuration error"}, nil)
		return
	}
	res, err := a.Mannequins.Convert(r.Context(), req.StyleID)
	if err != nil {
		a.fail(w, r, err, map[string]string{"provider": "seedream", "style_id": req.StyleID})
		return
	}
	a.json(w, http.StatusOK, res)
}
