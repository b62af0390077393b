package handlers

import "net/http"

type healthBody struct {
	Status   string `json:"status"`
	Provider string `json:"provider,omitempty"`
	Ready    bool   `json:"ready"`
	Problem  string `json:"problem,omitempty"`
}

// Health always answers 200 while the process serves traffic. Ready is false
// when try-on requests would fail on missing credentials.
func (a *App) Health(w http.ResponseWriter, _ *http.Request) {
	body := healthBody{Status: "ok", Ready: true}
	if a.Pipeline != nil {
		body.Provider = a.Pipeline.ProviderName()
		if err := a.Pipeline.Preflight(); err != nil {
			body.Ready = false
			body.Problem = err.Error()
		}
	}
	a.json(w, http.StatusOK, body)
}
