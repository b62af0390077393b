package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/middleware"
)

type tryOnRequest struct {
	UserImage         string `json:"userImage" validate:"required,imagedata"`
	StyleID           string `json:"styleId" validate:"required"`
	GeleStyle         string `json:"geleStyle"`
	StyleReferenceURL string `json:"styleReferenceUrl" validate:"omitempty,imageref"`
}

type tryOnStatus struct {
	Status    string `json:"status"`
	Variation string `json:"variation"`
	Provider  string `json:"provider"`
}

// TryOn handles POST /try-on.
func (a *App) TryOn(w http.ResponseWriter, r *http.Request) {
	var req tryOnRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.StyleID == "" {
		req.StyleID = req.GeleStyle
	}
	req.UserImage = strings.TrimSpace(req.UserImage)
	req.StyleID = strings.TrimSpace(req.StyleID)
	req.StyleReferenceURL = strings.TrimSpace(req.StyleReferenceURL)
	if err := a.validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, validationMessage(err), nil)
		return
	}

	res, err := a.Pipeline.Run(r.Context(), domain.TryOnRequest{
		UserImage:         req.UserImage,
		StyleID:           req.StyleID,
		StyleReferenceURL: req.StyleReferenceURL,
		RequestID:         middleware.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		a.fail(w, r, err, map[string]string{"provider": a.Pipeline.ProviderName(), "style_id": req.StyleID})
		return
	}
	a.json(w, http.StatusOK, res)
}

// TryOnStatus handles GET /try-on.
func (a *App) TryOnStatus(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, tryOnStatus{
		Status:    "working",
		Variation: a.Pipeline.Variation(),
		Provider:  a.Pipeline.ProviderName(),
	})
}

// decode reads a size capped JSON body into v and writes the 400 response
// itself when that fails.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, a.MaxBodyBytes)
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			a.error(w, http.StatusBadRequest, "Request body too large", nil)
		case errors.Is(err, io.EOF):
			a.error(w, http.StatusBadRequest, (&domain.ValidationError{}).Error(), nil)
		default:
			a.error(w, http.StatusBadRequest, "Invalid JSON body", nil)
		}
		return false
	}
	return true
}

func validationMessage(err error) string {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		for _, fe := range fields {
			switch {
			case fe.StructField() == "StyleReferenceURL":
				return "Invalid styleReferenceUrl"
			case fe.Tag() == "imagedata":
				return "Invalid userImage"
			}
		}
	}
	return (&domain.ValidationError{}).Error()
}
