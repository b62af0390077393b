package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/infra"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func testApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := &infra.Config{
		TryOn: infra.TryOnConfig{
			Provider:       infra.ProviderGemini,
			PromptMode:     "full",
			RequestTimeout: time.Minute,
			AssetsDir:      t.TempDir(),
		},
		Store: infra.StoreConfig{
			Backend:    infra.StoreFilesystem,
			Folder:     "try-on",
			Filesystem: infra.FilesystemConfig{Path: t.TempDir(), BaseURL: "http://localhost:8080/static"},
		},
		Fal: infra.FalConfig{PollInterval: time.Second, PollTimeout: time.Minute},
	}
	out := &bytes.Buffer{}
	app := New("test", out, &bytes.Buffer{})
	app.LoadConfig = func() (*infra.Config, error) { return cfg, nil }
	return app, out
}

func run(t *testing.T, app *App, args ...string) error {
	t.Helper()
	return app.Execute(context.Background(), args)
}

func TestStylesListTable(t *testing.T) {
	app, out := testApp(t)
	require.NoError(t, run(t, app, "styles", "list"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, out.String(), "Midnight Garden Gele")
}

func TestStylesListFiltersAsJSON(t *testing.T) {
	app, out := testApp(t)
	require.NoError(t, run(t, app, "styles", "list", "--category", "Modern", "-o", "json"))

	var styles []domain.Style
	require.NoError(t, json.Unmarshal(out.Bytes(), &styles))
	require.NotEmpty(t, styles)
	for _, s := range styles {
		assert.Equal(t, domain.CategoryModern, s.Category)
	}
}

func TestStylesListEmptyIsArray(t *testing.T) {
	app, out := testApp(t)
	require.NoError(t, run(t, app, "styles", "list", "--category", "bridal", "-o", "json"))
	assert.Equal(t, "[]", strings.TrimSpace(out.String()))
}

func TestStylesShow(t *testing.T) {
	app, out := testApp(t)
	require.NoError(t, run(t, app, "styles", "show", "1", "-o", "yaml"))
	assert.Contains(t, out.String(), "name: Midnight Garden Gele")
	assert.Contains(t, out.String(), "/images/mannequins/midnight-garden-gele-mannequin.png")
}

func TestStylesShowUnknown(t *testing.T) {
	app, _ := testApp(t)
	err := run(t, app, "styles", "show", "404")
	var unknown *domain.UnknownStyleError
	assert.ErrorAs(t, err, &unknown)
}

func TestUnknownFormat(t *testing.T) {
	app, _ := testApp(t)
	assert.Error(t, run(t, app, "styles", "list", "-o", "xml"))
}

func TestConfigCheckReportsMissingCredentials(t *testing.T) {
	app, out := testApp(t)
	err := run(t, app, "config", "check", "-o", "json")
	assert.ErrorIs(t, err, errNotReady)

	var report configReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.False(t, report.Ready)
	assert.Equal(t, "API configuration error", report.Problem)
	assert.Contains(t, report.Deployment, "provider=gemini store=filesystem")
	assert.NotEmpty(t, report.Credentials)
}

func TestConfigCheckReady(t *testing.T) {
	app, out := testApp(t)
	load := app.LoadConfig
	app.LoadConfig = func() (*infra.Config, error) {
		cfg, err := load()
		cfg.Gemini.APIKey = "key"
		return cfg, err
	}
	require.NoError(t, run(t, app, "config", "check"))
	assert.Contains(t, out.String(), "GEMINI_API_KEY")
	assert.NotContains(t, out.String(), "Problem:")
}

func TestTryOnRequiresFlags(t *testing.T) {
	app, _ := testApp(t)
	err := run(t, app, "tryon", "--style", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "photo")
}

func TestTryOnWithoutCredentials(t *testing.T) {
	app, _ := testApp(t)
	photo := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(photo, pngHeader, 0o644))

	err := run(t, app, "tryon", "--photo", photo, "--style", "1")
	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "status 500")
}

func TestTryOnRejectsUnknownProviderOverride(t *testing.T) {
	app, _ := testApp(t)
	err := run(t, app, "tryon", "--photo", "https://example.com/me.jpg", "--style", "1", "--provider", "dalle")
	assert.Error(t, err)
}

func TestMannequinWithoutCredentials(t *testing.T) {
	app, _ := testApp(t)
	err := run(t, app, "mannequin", "--style", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mannequin API configuration error")
}

func TestPhotoInput(t *testing.T) {
	got, err := photoInput(" https://example.com/me.jpg ")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/me.jpg", got)

	dir := t.TempDir()
	png := filepath.Join(dir, "me.png")
	require.NoError(t, os.WriteFile(png, pngHeader, 0o644))
	got, err = photoInput(png)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "data:image/png;base64,"))

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))
	_, err = photoInput(txt)
	assert.Error(t, err)

	_, err = photoInput(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
