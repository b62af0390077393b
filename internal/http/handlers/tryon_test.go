package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gelehaus/tryon/internal/domain"
)

func post(t *testing.T, env *testEnv, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec.Result(), decoded
}

func TestTryOnEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	resp, body := post(t, env, "/try-on", map[string]string{"userImage": dataURL(env.userPNG), "styleId": "1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d body = %v", resp.StatusCode, body)
	}
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "Full gele placement") || !strings.HasPrefix(msg, "Virtual try-on completed with Stub") {
		t.Fatalf("message = %q", msg)
	}
	resultURL, _ := body["resultImage"].(string)
	if !strings.HasPrefix(resultURL, env.server.URL+"/static/try-on/results/") {
		t.Fatalf("resultImage = %q", resultURL)
	}

	got, err := env.server.Client().Get(resultURL)
	if err != nil {
		t.Fatalf("fetch result: %v", err)
	}
	defer got.Body.Close()
	data, _ := io.ReadAll(got.Body)
	if !bytes.Equal(data, env.outPNG) {
		t.Fatalf("published image differs from provider output")
	}

	if env.provider.count() != 1 {
		t.Fatalf("provider calls = %d", env.provider.count())
	}
	in := env.provider.calls[0]
	userResp, err := env.server.Client().Get(in.UserImageURL)
	if err != nil {
		t.Fatalf("fetch user upload: %v", err)
	}
	defer userResp.Body.Close()
	userData, _ := io.ReadAll(userResp.Body)
	if !bytes.Equal(userData, env.userPNG) {
		t.Fatalf("user upload does not round trip")
	}
	if !strings.Contains(in.ReferenceURL, "/static/try-on/references/style-1-") {
		t.Fatalf("reference url = %q", in.ReferenceURL)
	}
	if !strings.Contains(in.Prompt, "Midnight Garden") {
		t.Fatalf("prompt does not name the style: %q", in.Prompt)
	}
}

func TestTryOnAcceptsGeleStyleAlias(t *testing.T) {
	env := newTestEnv(t)
	resp, body := post(t, env, "/try-on", map[string]string{"userImage": dataURL(env.userPNG), "geleStyle": "1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d body = %v", resp.StatusCode, body)
	}
}

func TestTryOnBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body any
		want string
	}{
		{"missing user image", map[string]string{"styleId": "999"}, "Missing required fields"},
		{"missing style", map[string]string{"userImage": "abc"}, "Missing required fields"},
		{"blank fields", map[string]string{"userImage": "  ", "styleId": " "}, "Missing required fields"},
		{"empty body", "", "Missing required fields"},
		{"malformed json", "{\"userImage\":", "Invalid JSON body"},
		{"bad reference", map[string]string{"userImage": "abc", "styleId": "1", "styleReferenceUrl": "ftp://x/y.png"}, "Invalid styleReferenceUrl"},
		{"traversal reference", map[string]string{"userImage": "abc", "styleId": "1", "styleReferenceUrl": "/images/../../etc/passwd"}, "Invalid styleReferenceUrl"},
		{"too large", map[string]string{"userImage": strings.Repeat("A", 2<<20), "styleId": "1"}, "Request body too large"},
		{"remote user image", map[string]string{"userImage": "http://169.254.169.254/latest/meta-data", "styleId": "1"}, "Invalid userImage"},
		{"file user image", map[string]string{"userImage": "file:///etc/passwd", "styleId": "1"}, "Invalid userImage"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			resp, body := post(t, env, "/try-on", tc.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d body = %v", resp.StatusCode, body)
			}
			if body["error"] != tc.want {
				t.Fatalf("error = %v, want %q", body["error"], tc.want)
			}
			if env.store.count() != 0 || env.provider.count() != 0 {
				t.Fatalf("external calls made: uploads=%d provider=%d", env.store.count(), env.provider.count())
			}
		})
	}
}

func TestTryOnUnknownStyle(t *testing.T) {
	env := newTestEnv(t)
	resp, body := post(t, env, "/try-on", map[string]string{"userImage": dataURL(env.userPNG), "styleId": "999"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["error"] != "Unknown style" {
		t.Fatalf("error = %v", body["error"])
	}
	if env.store.count() != 0 || env.provider.count() != 0 {
		t.Fatalf("external calls made for unknown style")
	}
}

func TestTryOnMissingCredentials(t *testing.T) {
	t.Run("provider", func(t *testing.T) {
		env := newTestEnv(t)
		env.provider.creds = false
		resp, body := post(t, env, "/try-on", map[string]string{"userImage": dataURL(env.userPNG), "styleId": "1"})
		if resp.StatusCode != http.StatusInternalServerError || body["error"] != "API configuration error" {
			t.Fatalf("status = %d body = %v", resp.StatusCode, body)
		}
		if env.store.count() != 0 {
			t.Fatalf("upload attempted without provider credentials")
		}
	})
	t.Run("store", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.creds = false
		resp, body := post(t, env, "/try-on", map[string]string{"userImage": dataURL(env.userPNG), "styleId": "1"})
		if resp.StatusCode != http.StatusInternalServerError || body["error"] != "Image upload configuration error" {
			t.Fatalf("status = %d body = %v", resp.StatusCode, body)
		}
		if env.store.count() != 0 || env.provider.count() != 0 {
			t.Fatalf("external calls made without store credentials")
		}
	})
}

func TestTryOnNoImageGenerated(t *testing.T) {
	env := newTestEnv(t)
	env.provider.err = &domain.GenerationError{
		Provider: "stub",
		Message:  "No image generated",
		Reason:   domain.ReasonSafety,
		Details:  map[string]any{"finishReason": "SAFETY", "candidates": 1},
	}
	resp, body := post(t, env, "/try-on", map[string]string{"userImage": dataURL(env.userPNG), "styleId": "1"})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["error"] != "No image generated" || body["reason"] != domain.ReasonSafety {
		t.Fatalf("body = %v", body)
	}
	details, _ := body["details"].(map[string]any)
	if details["finishReason"] != "SAFETY" {
		t.Fatalf("details = %v", body["details"])
	}
}

func TestTryOnStatus(t *testing.T) {
	env := newTestEnv(t)
	resp, err := env.server.Client().Get(env.server.URL + "/try-on")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "working" || body["variation"] != "Full gele placement" || body["provider"] != "stub" {
		t.Fatalf("body = %v", body)
	}
}
