// Package catalog holds the read-only list of gele styles the try-on flow
// can render.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/gelehaus/tryon/internal/domain"
)

// Catalog is immutable after construction and safe for concurrent reads.
type Catalog struct {
	styles []domain.Style
	byID   map[string]int
}

type fileDocument struct {
	Styles []domain.Style `yaml:"styles"`
}

// Default returns the built-in storefront catalog.
func Default() *Catalog {
	c, err := New(builtin)
	if err != nil {
		panic(fmt.Sprintf("catalog: builtin styles invalid: %v", err))
	}
	return c
}

// New validates styles and builds a lookup index. The slice is copied.
func New(styles []domain.Style) (*Catalog, error) {
	if len(styles) == 0 {
		return nil, errors.New("catalog: at least one style is required")
	}
	c := &Catalog{
		styles: make([]domain.Style, 0, len(styles)),
		byID:   make(map[string]int, len(styles)),
	}
	for i, s := range styles {
		s.ID = strings.TrimSpace(s.ID)
		s.Name = strings.TrimSpace(s.Name)
		s.ReferenceImage = strings.TrimSpace(s.ReferenceImage)
		switch {
		case s.ID == "":
			return nil, fmt.Errorf("catalog: style %d has no id", i)
		case s.Name == "":
			return nil, fmt.Errorf("catalog: style %s has no name", s.ID)
		case s.ReferenceImage == "":
			return nil, fmt.Errorf("catalog: style %s has no reference image", s.ID)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate style id %s", s.ID)
		}
		if s.Currency == "" {
			s.Currency = currencyGBP
		}
		if s.Image == "" {
			s.Image = s.ReferenceImage
		}
		s.Images = append([]string(nil), s.Images...)
		c.byID[s.ID] = len(c.styles)
		c.styles = append(c.styles, s)
	}
	return c, nil
}

// Load returns the catalog from a YAML file, or the built-in one when path is
// empty.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML catalog document of the form `styles: [...]`.
func Parse(raw []byte) (*Catalog, error) {
	var doc fileDocument
	if err := yaml.UnmarshalWithOptions(raw, &doc, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	return New(doc.Styles)
}

// Get returns the style with the given id.
func (c *Catalog) Get(id string) (domain.Style, bool) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return domain.Style{}, false
	}
	return c.styles[idx], true
}

// Lookup is Get with an UnknownStyleError for missing ids.
func (c *Catalog) Lookup(id string) (domain.Style, error) {
	s, ok := c.Get(id)
	if !ok {
		return domain.Style{}, &domain.UnknownStyleError{StyleID: id}
	}
	return s, nil
}

// All returns every style in catalog order.
func (c *Catalog) All() []domain.Style {
	return append([]domain.Style(nil), c.styles...)
}

func (c *Catalog) Featured() []domain.Style {
	return c.filter(func(s domain.Style) bool { return s.Featured })
}

func (c *Catalog) ByCategory(category domain.Category) []domain.Style {
	return c.filter(func(s domain.Style) bool { return s.Category == category })
}

func (c *Catalog) Len() int { return len(c.styles) }

func (c *Catalog) filter(keep func(domain.Style) bool) []domain.Style {
	var out []domain.Style
	for _, s := range c.styles {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}
