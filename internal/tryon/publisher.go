package tryon

import (
	"context"
	"errors"

	"github.com/gelehaus/tryon/internal/storage"
)

// Publisher re-hosts generated images in the results folder so callers get a
// durable URL instead of a short-lived provider link.
type Publisher struct {
	store  storage.Store
	folder string
}

func NewPublisher(store storage.Store, folderRoot string) *Publisher {
	return &Publisher{store: store, folder: storage.Folder(folderRoot, storage.FolderResults)}
}

// Publish uploads the output and returns its public URL.
func (p *Publisher) Publish(ctx context.Context, out *GenerateOutput, prefix string) (string, error) {
	if out == nil {
		return "", errors.New("tryon: nothing to publish")
	}
	var src storage.Source
	switch {
	case len(out.Data) > 0:
		src = storage.FromBytes(out.Data, out.MIME)
	case out.URL != "":
		src = storage.FromURL(out.URL)
	default:
		return "", errors.New("tryon: generated output has no image")
	}
	obj, err := p.store.Upload(ctx, src, storage.UploadOptions{
		Folder:   p.folder,
		PublicID: storage.NewPublicID(prefix),
	})
	if err != nil {
		return "", err
	}
	return obj.URL, nil
}

// Folder is the results folder this publisher writes to.
func (p *Publisher) Folder() string { return p.folder }
