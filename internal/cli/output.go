package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/goccy/go-yaml"
)

// render writes v in the selected format. table is used for FormatTable and
// receives an aligned writer that is flushed afterwards.
func (a *App) render(v any, table func(w *tabwriter.Writer)) error {
	switch a.format {
	case FormatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		raw, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = a.out.Write(raw)
		return err
	default:
		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		table(w)
		return w.Flush()
	}
}
