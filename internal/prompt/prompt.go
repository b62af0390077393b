// Package prompt turns a style and an edit mode into the instruction text
// sent to the image providers. Everything here is a pure function of its
// input.
package prompt

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode selects how much of the photo the provider may repaint.
type Mode int

const (
	FullReplace Mode = iota
	RegionOnly
	Analyze
)

// Region narrows RegionOnly edits.
type Region int

const (
	RegionNone Region = iota
	RegionTopHalf
	RegionCrown
)

// Dialect is the phrasing a provider understands.
type Dialect int

const (
	// MultiImage addresses "the first image" and "the second image" sent as
	// separate inline parts.
	MultiImage Dialect = iota
	// Reference addresses "this person" plus a separately attached reference.
	Reference
	// Garment providers take no instruction text at all.
	Garment
)

// Setting is a parsed mode plus region.
type Setting struct {
	Mode   Mode
	Region Region
}

// Request is the input to Build.
type Request struct {
	StyleName   string
	ColorDetail string
	Setting     Setting
	Dialect     Dialect
}

// ParseSetting maps configuration values (full, top-half, crown, analyze).
func ParseSetting(v string) (Setting, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "full":
		return Setting{Mode: FullReplace}, nil
	case "top-half":
		return Setting{Mode: RegionOnly, Region: RegionTopHalf}, nil
	case "crown":
		return Setting{Mode: RegionOnly, Region: RegionCrown}, nil
	case "analyze":
		return Setting{Mode: Analyze}, nil
	}
	return Setting{}, fmt.Errorf("prompt: unknown mode %q", v)
}

func (s Setting) String() string {
	switch {
	case s.Mode == Analyze:
		return "analyze"
	case s.Mode == RegionOnly && s.Region == RegionCrown:
		return "crown"
	case s.Mode == RegionOnly:
		return "top-half"
	default:
		return "full"
	}
}

// Variation is the human label reported by the health check and appended to
// success messages.
func (s Setting) Variation() string {
	switch s.String() {
	case "top-half":
		return "Variation 9: Top half only"
	case "crown":
		return "Variation 10: Crown and hair area"
	case "analyze":
		return "Dynamic characteristics matching"
	default:
		return "Full gele placement"
	}
}

// Build returns the instruction text for req. Identical requests always
// produce identical strings.
func Build(req Request) string {
	style := styleName(req.StyleName)
	detail := strings.TrimSpace(req.ColorDetail)
	switch req.Dialect {
	case Garment:
		return ""
	case Reference:
		return buildReference(style, detail, req.Setting)
	default:
		return buildMultiImage(style, detail, req.Setting)
	}
}

func buildMultiImage(style, detail string, s Setting) string {
	switch {
	case s.Mode == Analyze:
		return fmt.Sprintf(analyzeTemplate, withDetail(style, detail))
	case s.Mode == RegionOnly && s.Region == RegionCrown:
		return fmt.Sprintf("Edit the crown and hair area of the first image (everything above the forehead). The %s gele from the second image must provide 100%% hair coverage - absolutely zero hair visible. Forehead, face, and everything below must remain pixel-perfect identical to original.", withDetail(style, detail))
	case s.Mode == RegionOnly:
		return fmt.Sprintf("Modify the top half of the first image only. Apply the %s gele from the second image to completely cover and hide all hair. Not even a single hair strand should be visible. Bottom half stays completely unchanged. Total hair coverage is essential.", withDetail(style, detail))
	default:
		return fmt.Sprintf("Edit this image: Add the %s African gele headwrap from the reference image to the person in the first image. The gele must COMPLETELY cover all hair - no hair should be visible at all. Match the EXACT colors and pattern from the reference image. CRITICAL: Keep the person's face, facial features, skin tone, expression, and background EXACTLY the same as in the original photo - do not change the person's identity or appearance in any way. Only add the gele headwrap. Professional photo, photorealistic, high quality.", withDetail(style, detail))
	}
}

func buildReference(style, detail string, s Setting) string {
	subject := withDetail(style, detail)
	switch {
	case s.Mode == Analyze:
		return fmt.Sprintf("Create a professional close-up portrait of this person wearing the %s gele from the reference image. Match their skin tone, facial features, background and lighting exactly. No hair visible anywhere.", subject)
	case s.Mode == RegionOnly && s.Region == RegionCrown:
		return fmt.Sprintf("Edit only the crown and hair area of this person, everything above the forehead. The %s gele from the reference image must cover all hair. Keep forehead, face and everything below unchanged.", subject)
	case s.Mode == RegionOnly:
		return fmt.Sprintf("Edit only the top half of this photo. Apply the %s gele from the reference image so no hair is visible. Keep the bottom half unchanged.", subject)
	default:
		return fmt.Sprintf("Add the %s gele headwrap from the reference image to this person. Cover all hair completely. Keep face, skin tone, and background unchanged.", subject)
	}
}

func withDetail(style, detail string) string {
	if detail == "" {
		return style
	}
	return style + " (" + detail + ")"
}

func styleName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "selected"
	}
	// Casers keep state between calls; one per build.
	return cases.Title(language.English, cases.NoLower).String(name)
}

const analyzeTemplate = `You are creating a portrait that wears the %s gele.

ANALYZE FROM FIRST IMAGE (USER PHOTO):
- Skin tone and complexion
- Ethnicity and facial features
- Face shape and structure
- Background style (studio, outdoor, home, etc.)
- Lighting style (soft, bright, natural, etc.)
- Photo angle and composition

COPY FROM SECOND IMAGE (MANNEQUIN):
- The exact gele headwrap style, colors, and patterns
- How the gele is wrapped and positioned
- All the intricate details of the fabric

CRITICAL REQUIREMENTS:
- ZERO hair visible - the gele MUST completely cover ALL hair from root to tip
- The gele wraps around the entire head covering every strand of hair
- NO curls, NO edges, NO hairline visible
- The gele fabric extends down to cover where hair would normally show
- Treat this as if the person has their hair completely tucked inside the gele wrap

CREATE:
A professional close-up portrait photograph of a person wearing the gele from the second image, matching ALL characteristics from the first image. ABSOLUTELY NO HAIR VISIBLE ANYWHERE - the gele completely covers the entire head and all hair. The person's skin tone, facial features, ethnicity, background style, and lighting should match the first image exactly. High detail, photorealistic, professional photography.`

// MannequinConversion is the instruction for turning a worn-gele product
// photo into a glass mannequin reference shot.
const MannequinConversion = "Transform this portrait: Replace the woman in this image with a transparent glass mannequin head with a metallic black face, while keeping the gele headscarf EXACTLY the same - same colors, same patterns, same folds, same wrapping style and same position. Only the person changes into the mannequin; the gele must stay identical. Plain light studio background, professional product photography."
