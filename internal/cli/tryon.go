package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gelehaus/tryon/internal/bootstrap"
	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/storage"
)

type tryOnOutput struct {
	ResultImage string `json:"resultImage" yaml:"resultImage"`
	Message     string `json:"message" yaml:"message"`
	Provider    string `json:"provider" yaml:"provider"`
	StyleID     string `json:"styleId" yaml:"styleId"`
	Reference   string `json:"referenceUrl" yaml:"referenceUrl"`
	RequestID   string `json:"requestId" yaml:"requestId"`
}

func newTryOnCommand(a *App) *cobra.Command {
	var (
		photo     string
		styleID   string
		reference string
		o         bootstrap.Overrides
	)
	cmd := &cobra.Command{
		Use:   "tryon",
		Short: "Render one photo wearing a catalog gele",
		Args:  cobra.NoArgs,
		Example: `  tryonctl tryon --photo me.jpg --style 1
  tryonctl tryon --photo https://example.com/me.jpg --style 3 --provider flux --mode crown`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userImage, err := photoInput(photo)
			if err != nil {
				return err
			}
			c, err := a.build(cmd.Context(), o)
			if err != nil {
				return err
			}
			req := domain.TryOnRequest{
				UserImage:         userImage,
				StyleID:           styleID,
				StyleReferenceURL: reference,
				RequestID:         uuid.NewString(),
			}
			res, err := c.Pipeline.Run(cmd.Context(), req)
			if err != nil {
				return describeFailure(err)
			}
			out := tryOnOutput{
				ResultImage: res.ResultImage,
				Message:     res.Message,
				Provider:    res.Provider,
				StyleID:     res.StyleID,
				Reference:   res.ReferenceURL,
				RequestID:   req.RequestID,
			}
			return a.render(out, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Result:\t%s\n", out.ResultImage)
				fmt.Fprintf(w, "Message:\t%s\n", out.Message)
				fmt.Fprintf(w, "Provider:\t%s\n", out.Provider)
				fmt.Fprintf(w, "Reference:\t%s\n", out.Reference)
			})
		},
	}
	cmd.Flags().StringVar(&photo, "photo", "", "user photo: local file or http(s) URL")
	cmd.Flags().StringVar(&styleID, "style", "", "catalog style id")
	cmd.Flags().StringVar(&reference, "reference", "", "override the style's reference image URL")
	cmd.Flags().StringVar(&o.Provider, "provider", "", "provider for this run: gemini, fashn, flux")
	cmd.Flags().StringVar(&o.PromptMode, "mode", "", "prompt mode: full, top-half, crown, analyze")
	_ = cmd.MarkFlagRequired("photo")
	_ = cmd.MarkFlagRequired("style")
	return cmd
}

func newMannequinCommand(a *App) *cobra.Command {
	var styleID string
	cmd := &cobra.Command{
		Use:   "mannequin",
		Short: "Convert a style's product photo into a mannequin reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.build(cmd.Context(), bootstrap.Overrides{})
			if err != nil {
				return err
			}
			res, err := c.Mannequins.Convert(cmd.Context(), styleID)
			if err != nil {
				return describeFailure(err)
			}
			return a.render(res, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Mannequin:\t%s\n", res.MannequinImage)
				fmt.Fprintf(w, "Source:\t%s\n", res.SourceURL)
				fmt.Fprintf(w, "Message:\t%s\n", res.Message)
			})
		},
	}
	cmd.Flags().StringVar(&styleID, "style", "", "catalog style id")
	_ = cmd.MarkFlagRequired("style")
	return cmd
}

// photoInput passes URLs through and turns a local file into a data URL so
// it takes the same upload path as an API request body.
func photoInput(photo string) (string, error) {
	photo = strings.TrimSpace(photo)
	if photo == "" || storage.IsRemoteURL(photo) {
		return photo, nil
	}
	data, err := os.ReadFile(photo)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	mime, err := storage.DetectImageMIME(data, "")
	if err != nil {
		return "", err
	}
	return storage.EncodeDataURL(data, mime), nil
}

// describeFailure formats a pipeline error the way the API would report it.
func describeFailure(err error) error {
	status, msg, details := domain.Describe(err)
	if details != nil {
		return fmt.Errorf("%s (status %d): %v: %w", msg, status, details, err)
	}
	return fmt.Errorf("%s (status %d): %w", msg, status, err)
}
