package domain

// Category groups catalog styles for storefront filtering.
type Category string

const (
	CategoryTraditional Category = "traditional"
	CategoryModern      Category = "modern"
	CategoryBridal      Category = "bridal"
)

// Style is one gele in the catalog. ReferenceImage is the mannequin shot the
// providers copy the wrap from; it may be a site-relative path or a public URL.
type Style struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Price          float64  `json:"price" yaml:"price"`
	Currency       string   `json:"currency" yaml:"currency"`
	Description    string   `json:"description" yaml:"description"`
	Category       Category `json:"category" yaml:"category"`
	Color          string   `json:"color" yaml:"color"`
	ColorDetail    string   `json:"colorDetail,omitempty" yaml:"color_detail"`
	Image          string   `json:"image" yaml:"image"`
	Images         []string `json:"images,omitempty" yaml:"images"`
	ReferenceImage string   `json:"referenceImage" yaml:"reference_image"`
	Featured       bool     `json:"featured" yaml:"featured"`
	Stock          int      `json:"stock" yaml:"stock"`
}

// InStock reports whether the style can be ordered.
func (s Style) InStock() bool { return s.Stock > 0 }
