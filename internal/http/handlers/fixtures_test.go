package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/gelehaus/tryon/internal/catalog"
	"github.com/gelehaus/tryon/internal/prompt"
	"github.com/gelehaus/tryon/internal/storage"
	"github.com/gelehaus/tryon/internal/tryon"
)

func pngImage(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

type stubProvider struct {
	mu     sync.Mutex
	creds  bool
	calls  []tryon.GenerateInput
	output *tryon.GenerateOutput
	err    error
}

func (p *stubProvider) Name() string { return "stub" }
func (p *stubProvider) HasCredentials() bool { return p.creds }
func (p *stubProvider) Dialect() prompt.Dialect { return prompt.MultiImage }
func (p *stubProvider) ReferenceFolder() string { return storage.FolderReferences }
func (p *stubProvider) Message() string { return "Virtual try-on completed with Stub" }

func (p *stubProvider) Generate(_ context.Context, in tryon.GenerateInput) (*tryon.GenerateOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, in)
	if p.err != nil {
		return nil, p.err
	}
	return p.output, nil
}

func (p *stubProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// countingStore wraps a FileStore and counts uploads.
type countingStore struct {
	*storage.FileStore
	mu      sync.Mutex
	creds   bool
	uploads int
}

func (s *countingStore) HasCredentials() bool { return s.creds }

func (s *countingStore) Upload(ctx context.Context, src storage.Source, opts storage.UploadOptions) (*storage.Object, error) {
	s.mu.Lock()
	s.uploads++
	s.mu.Unlock()
	return s.FileStore.Upload(ctx, src, opts)
}

func (s *countingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

type testEnv struct {
	app      *App
	handler  http.Handler
	server   *httptest.Server
	store    *countingStore
	resolver *tryon.Resolver
	assets   string
	provider *stubProvider
	userPNG  []byte
	outPNG   []byte
}

// newTestEnv serves the handlers and the file store from one httptest server
// so returned URLs can be fetched.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		userPNG: pngImage(t, color.RGBA{R: 200, A: 255}),
		outPNG:  pngImage(t, color.RGBA{G: 200, A: 255}),
	}
	assets := t.TempDir()
	refPath := filepath.Join(assets, "images", "mannequins", "midnight-garden-gele-mannequin.png")
	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(refPath, pngImage(t, color.RGBA{B: 200, A: 255}), 0o644); err != nil {
		t.Fatal(err)
	}

	mux := chi.NewRouter()
	env.server = httptest.NewServer(mux)
	t.Cleanup(env.server.Close)

	fs, err := storage.NewFileStore(t.TempDir(), env.server.URL+"/static", env.server.Client())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	env.store = &countingStore{FileStore: fs, creds: true}
	env.provider = &stubProvider{creds: true, output: &tryon.GenerateOutput{Data: env.outPNG, MIME: "image/png"}}

	resolver, err := tryon.NewResolver(tryon.ResolverOptions{
		Catalog:   catalog.Default(),
		Store:     env.store,
		AssetsDir: assets,
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	pipeline, err := tryon.NewPipeline(tryon.Options{
		Provider: env.provider,
		Store:    env.store,
		Resolver: resolver,
		Setting:  prompt.Setting{Mode: prompt.FullReplace},
	})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	env.resolver, env.assets = resolver, assets
	env.app = NewApp(pipeline, nil, catalog.Default(), nil, 1<<20)

	mux.Post("/try-on", env.app.TryOn)
	mux.Get("/try-on", env.app.TryOnStatus)
	mux.Get("/styles", env.app.ListStyles)
	mux.Get("/styles/{id}", env.app.GetStyle)
	mux.Post("/mannequins", env.app.ConvertMannequin)
	mux.Get("/healthz", env.app.Health)
	mux.Get("/openapi.json", env.app.OpenAPIJSON)
	mux.Get("/docs", env.app.OpenAPIDocs)
	mux.Handle("/static/*", http.StripPrefix("/static/", fs.Handler()))
	env.handler = mux
	return env
}

func dataURL(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}
