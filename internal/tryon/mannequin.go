package tryon

import (
	"context"
	"errors"
	"strings"

	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/infra"
	"github.com/gelehaus/tryon/internal/prompt"
	"github.com/gelehaus/tryon/internal/storage"
)

// MannequinService converts a style's product photo into a glass mannequin
// reference and stores it in the mannequins folder.
type MannequinService struct {
	converter Converter
	store     storage.Store
	resolver  *Resolver
	folder    string
	logger    *infra.Logger
}

func NewMannequinService(converter Converter, store storage.Store, resolver *Resolver, folderRoot string, logger *infra.Logger) (*MannequinService, error) {
	if converter == nil || store == nil || resolver == nil {
		return nil, errors.New("tryon: converter, store and resolver are required")
	}
	if folderRoot == "" {
		folderRoot = "try-on"
	}
	return &MannequinService{
		converter: converter,
		store:     store,
		resolver:  resolver,
		folder:    storage.Folder(folderRoot, storage.FolderMannequins),
		logger:    infra.LoggerOrDiscard(logger),
	}, nil
}

// Convert runs one conversion for styleID.
func (s *MannequinService) Convert(ctx context.Context, styleID string) (*domain.MannequinResult, error) {
	styleID = strings.TrimSpace(styleID)
	if styleID == "" {
		return nil, &domain.ValidationError{Field: "styleId"}
	}
	if !s.converter.HasCredentials() {
		return nil, &domain.ConfigurationError{Component: "seedream", Message: "Mannequin API configuration error"}
	}
	if !s.store.HasCredentials() {
		return nil, &domain.ConfigurationError{Component: s.store.Name(), Message: "Image upload configuration error"}
	}
	style, err := s.resolver.Style(styleID)
	if err != nil {
		return nil, err
	}
	sourceURL, err := s.resolver.ResolveImage(ctx, style)
	if err != nil {
		return nil, err
	}
	converted, err := s.converter.Convert(ctx, sourceURL, prompt.MannequinConversion)
	if err != nil {
		return nil, err
	}
	obj, err := s.store.Upload(ctx, storage.FromURL(converted), storage.UploadOptions{
		Folder:   s.folder,
		PublicID: storage.NewPublicID("mannequin-" + style.ID),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("style_id", style.ID).Str("url", obj.URL).Msg("tryon: mannequin converted")
	return &domain.MannequinResult{
		MannequinImage: obj.URL,
		Message:        "Converted " + style.Name + " to mannequin reference",
		SourceURL:      sourceURL,
	}, nil
}
