package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gelehaus/tryon/internal/catalog"
	"github.com/gelehaus/tryon/internal/domain"
)

func newStylesCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "styles",
		Short:   "Inspect the gele catalog",
		Aliases: []string{"style"},
	}
	cmd.AddCommand(newStylesListCommand(a), newStylesShowCommand(a))
	return cmd
}

func newStylesListCommand(a *App) *cobra.Command {
	var (
		category string
		featured bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog styles",
		Args:  cobra.NoArgs,
		Example: `  tryonctl styles list
  tryonctl styles list --category bridal
  tryonctl styles list --featured -o json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cat, err := catalog.Load(a.cfg.TryOn.CatalogPath)
			if err != nil {
				return err
			}
			styles := cat.All()
			if category != "" {
				styles = cat.ByCategory(domain.Category(strings.ToLower(category)))
			}
			if featured {
				kept := styles[:0:0]
				for _, s := range styles {
					if s.Featured {
						kept = append(kept, s)
					}
				}
				styles = kept
			}
			if styles == nil {
				styles = []domain.Style{}
			}
			return a.render(styles, func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tFEATURED\tSTOCK")
				for _, s := range styles {
					fmt.Fprintf(w, "%s\t%s\t%s\t%.2f %s\t%t\t%d\n", s.ID, s.Name, s.Category, s.Price, s.Currency, s.Featured, s.Stock)
				}
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only styles in this category (traditional, modern, bridal)")
	cmd.Flags().BoolVar(&featured, "featured", false, "only featured styles")
	return cmd
}

func newStylesShowCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <style-id>",
		Short: "Show one catalog style",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cat, err := catalog.Load(a.cfg.TryOn.CatalogPath)
			if err != nil {
				return err
			}
			s, err := cat.Lookup(args[0])
			if err != nil {
				return err
			}
			return a.render(s, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "ID:\t%s\n", s.ID)
				fmt.Fprintf(w, "Name:\t%s\n", s.Name)
				fmt.Fprintf(w, "Category:\t%s\n", s.Category)
				fmt.Fprintf(w, "Price:\t%.2f %s\n", s.Price, s.Currency)
				fmt.Fprintf(w, "Color:\t%s\n", s.Color)
				if s.ColorDetail != "" {
					fmt.Fprintf(w, "Color detail:\t%s\n", s.ColorDetail)
				}
				fmt.Fprintf(w, "Image:\t%s\n", s.Image)
				fmt.Fprintf(w, "Reference:\t%s\n", s.ReferenceImage)
				fmt.Fprintf(w, "In stock:\t%t (%d)\n", s.InStock(), s.Stock)
			})
		},
	}
}
