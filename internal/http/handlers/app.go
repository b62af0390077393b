package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/gelehaus/tryon/internal/catalog"
	"github.com/gelehaus/tryon/internal/infra"
	"github.com/gelehaus/tryon/internal/tryon"
)

const defaultMaxBodyBytes = 15 << 20

// App holds the dependencies shared by every handler. It is built once at
// startup and carries no per-request state.
type App struct {
	Pipeline     *tryon.Pipeline
	Mannequins   *tryon.MannequinService
	Catalog      *catalog.Catalog
	Logger       *infra.Logger
	MaxBodyBytes int64

	validate *validator.Validate
}

func NewApp(pipeline *tryon.Pipeline, mannequins *tryon.MannequinService, cat *catalog.Catalog, logger *infra.Logger, maxBody int64) *App {
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	if cat == nil {
		cat = catalog.Default()
	}
	v := validator.New()
	_ = v.RegisterValidation("imageref", validateImageRef)
	_ = v.RegisterValidation("imagedata", validateImageData)
	return &App{
		Pipeline:     pipeline,
		Mannequins:   mannequins,
		Catalog:      cat,
		Logger:       infra.LoggerOrDiscard(logger),
		MaxBodyBytes: maxBody,
		validate:     v,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`
	Details any    `json:"details,omitempty"`
}

func (a *App) error(w http.ResponseWriter, code int, msg string, details any) {
	a.json(w, code, errorBody{Error: msg, Details: details})
}

// validateImageRef accepts an absolute http(s) URL or a site relative path.
// validateImageData accepts base64 or a data URL and refuses anything else
// carrying a scheme, remote URLs included.
func validateImageData(fl validator.FieldLevel) bool {
	v := strings.TrimSpace(fl.Field().String())
	if strings.HasPrefix(strings.ToLower(v), "data:") {
		return true
	}
	return !strings.Contains(v, ":")
}

func validateImageRef(fl validator.FieldLevel) bool {
	v := strings.TrimSpace(fl.Field().String())
	if v == "" {
		return true
	}
	if strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//") {
		return !strings.Contains(v, "..")
	}
	return strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://")
}
