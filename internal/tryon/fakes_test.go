package tryon

import (
	"context"
	"errors"
	"sync"

	"github.com/gelehaus/tryon/internal/catalog"
	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/prompt"
	"github.com/gelehaus/tryon/internal/storage"
)

type uploadCall struct {
	Source storage.Source
	Opts   storage.UploadOptions
}

type fakeStore struct {
	mu       sync.Mutex
	creds    bool
	calls    []uploadCall
	failOn   string
	failWith error
}

func newFakeStore() *fakeStore { return &fakeStore{creds: true} }

func (s *fakeStore) Name() string { return "fake" }
func (s *fakeStore) HasCredentials() bool { return s.creds }

func (s *fakeStore) Upload(_ context.Context, src storage.Source, opts storage.UploadOptions) (*storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, uploadCall{Source: src, Opts: opts})
	if s.failOn != "" && opts.Folder == s.failOn {
		return nil, &domain.UploadError{Folder: opts.Folder, Err: s.failWith}
	}
	return &storage.Object{URL: "https://store.test/" + opts.Folder + "/" + opts.PublicID, Key: opts.Folder + "/" + opts.PublicID}, nil
}

func (s *fakeStore) uploads() []uploadCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uploadCall(nil), s.calls...)
}

type fakeProvider struct {
	mu       sync.Mutex
	creds    bool
	dialect  prompt.Dialect
	folder   string
	inputs   []GenerateInput
	output   *GenerateOutput
	err      error
	blocking bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		creds:  true,
		folder: storage.FolderReferences,
		output: &GenerateOutput{Data: []byte("img"), MIME: "image/png"},
	}
}

func (p *fakeProvider) Name() string { return "fake" }
func (p *fakeProvider) HasCredentials() bool { return p.creds }
func (p *fakeProvider) Dialect() prompt.Dialect { return p.dialect }
func (p *fakeProvider) ReferenceFolder() string { return p.folder }
func (p *fakeProvider) Message() string { return "Generated by fake" }

func (p *fakeProvider) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	p.mu.Lock()
	p.inputs = append(p.inputs, in)
	p.mu.Unlock()
	if p.blocking {
		<-ctx.Done()
		return nil, &domain.GenerationError{Provider: "fake", Message: "cancelled", Reason: domain.ReasonTimeout, Err: ctx.Err()}
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.output, nil
}

func (p *fakeProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inputs)
}

type fakeConverter struct {
	creds bool
	url   string
	err   error
	seen  []string
}

func (c *fakeConverter) HasCredentials() bool { return c.creds }

func (c *fakeConverter) Convert(_ context.Context, imageURL, _ string) (string, error) {
	c.seen = append(c.seen, imageURL)
	if c.err != nil {
		return "", c.err
	}
	return c.url, nil
}

var errBoom = errors.New("boom")

func newTestResolver(store storage.Store) *Resolver {
	r, err := NewResolver(ResolverOptions{
		Catalog:    catalog.Default(),
		Store:      store,
		AssetsDir:  "public",
		FolderRoot: "try-on",
		LocalHosts: []string{"localhost"},
	})
	if err != nil {
		panic(err)
	}
	return r
}
