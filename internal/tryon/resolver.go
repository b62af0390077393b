package tryon

import (
	"context"
	"errors"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/gelehaus/tryon/internal/catalog"
	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/storage"
)

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	Catalog    *catalog.Catalog
	Store      storage.Store
	AssetsDir  string
	FolderRoot string
	// LocalHosts are hosts whose URLs point at the storefront's own public
	// directory and must be re-hosted before a provider can fetch them.
	LocalHosts []string
}

// Resolver maps a style to a reference image URL a provider can fetch.
type Resolver struct {
	catalog    *catalog.Catalog
	store      storage.Store
	assetsDir  string
	folderRoot string
	localHosts map[string]struct{}
}

func NewResolver(opts ResolverOptions) (*Resolver, error) {
	if opts.Catalog == nil {
		return nil, errors.New("tryon: catalog is required")
	}
	if opts.Store == nil {
		return nil, errors.New("tryon: image store is required")
	}
	hosts := make(map[string]struct{}, len(opts.LocalHosts))
	for _, h := range opts.LocalHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts[h] = struct{}{}
		}
	}
	assets := opts.AssetsDir
	if assets == "" {
		assets = "public"
	}
	root := opts.FolderRoot
	if root == "" {
		root = "try-on"
	}
	return &Resolver{
		catalog:    opts.Catalog,
		store:      opts.Store,
		assetsDir:  assets,
		folderRoot: root,
		localHosts: hosts,
	}, nil
}

// Style looks the id up in the catalog. It never touches the network.
func (r *Resolver) Style(styleID string) (domain.Style, error) {
	return r.catalog.Lookup(styleID)
}

// Resolve returns a public reference URL for styleID, uploading the catalog
// asset to the references folder when it is only locally addressable.
func (r *Resolver) Resolve(ctx context.Context, styleID string) (string, error) {
	style, err := r.Style(styleID)
	if err != nil {
		return "", err
	}
	return r.ResolveStyle(ctx, style, "", storage.FolderReferences)
}

// ResolveStyle resolves override when set, otherwise the style's reference
// image. Public URLs pass through unchanged.
func (r *Resolver) ResolveStyle(ctx context.Context, style domain.Style, override, subFolder string) (string, error) {
	ref := strings.TrimSpace(override)
	if ref == "" {
		ref = style.ReferenceImage
	}
	return r.resolveRef(ctx, ref, "style-"+style.ID, subFolder)
}

// ResolveImage resolves the style's product photo, used as the mannequin
// conversion input.
func (r *Resolver) ResolveImage(ctx context.Context, style domain.Style) (string, error) {
	return r.resolveRef(ctx, style.Image, "product-"+style.ID, storage.FolderReferences)
}

func (r *Resolver) resolveRef(ctx context.Context, ref, idPrefix, subFolder string) (string, error) {
	localPath, ok, err := r.localAsset(ref)
	if err != nil {
		return "", &domain.ValidationError{Message: "Invalid styleReferenceUrl", Field: "styleReferenceUrl"}
	}
	if !ok {
		return ref, nil
	}
	base := strings.TrimSuffix(path.Base(localPath), path.Ext(localPath))
	obj, err := r.store.Upload(ctx, storage.FromPath(filepath.Join(r.assetsDir, filepath.FromSlash(localPath))), storage.UploadOptions{
		Folder:   storage.Folder(r.folderRoot, subFolder),
		PublicID: idPrefix + "-" + base,
	})
	if err != nil {
		return "", err
	}
	return obj.URL, nil
}

// localAsset reports whether ref lives under the assets directory and returns
// its sanitized relative path.
func (r *Resolver) localAsset(ref string) (string, bool, error) {
	if storage.IsRemoteURL(ref) {
		u, err := url.Parse(ref)
		if err != nil {
			return "", false, err
		}
		if _, local := r.localHosts[strings.ToLower(u.Hostname())]; !local {
			return "", false, nil
		}
		ref = u.Path
	} else if !strings.HasPrefix(ref, "/") {
		return "", false, errors.New("tryon: reference must be a URL or a site path")
	}
	key, err := storage.SanitizeKey(ref)
	if err != nil {
		return "", false, err
	}
	return key, true, nil
}
