package catalog

import "github.com/gelehaus/tryon/internal/domain"

const currencyGBP = "GBP"

// builtin is the storefront line-up shipped with the service.
var builtin = []domain.Style{
	{
		ID:             "1",
		Name:           "Midnight Garden Gele",
		Price:          85,
		Currency:       currencyGBP,
		Description:    "Striking black gele with vibrant orange, gold, green, and white dotted African print. This traditional aso-oke headwrap features an intricate spotted pattern that catches the light beautifully. Perfect for cultural celebrations and special occasions.",
		Category:       domain.CategoryTraditional,
		Color:          "Black, Orange & Gold",
		ColorDetail:    "in black fabric with an orange, gold, green and white dotted print",
		Image:          "/images/products/midnight-garden-gele-main.jpg",
		Images:         []string{"/images/products/midnight-garden-gele-side.jpg", "/images/mannequins/midnight-garden-gele-mannequin.png"},
		ReferenceImage: "/images/mannequins/midnight-garden-gele-mannequin.png",
		Featured:       true,
		Stock:          15,
	},
	{
		ID:             "2",
		Name:           "Royal Heritage Wrap",
		Price:          90,
		Currency:       currencyGBP,
		Description:    "Rich burgundy, gold, and royal blue traditional African print gele. Features intricate geometric patterns with cream accents, crafted from premium aso-oke fabric. A stunning statement piece for weddings and formal events.",
		Category:       domain.CategoryTraditional,
		Color:          "Burgundy, Gold & Blue",
		ColorDetail:    "with horizontal stripes in burnt orange (#CC5500), terracotta, burgundy red, and maroon colors blended together, plus metallic gold (#FFD700) threading",
		Image:          "/images/mannequins/gele-2-mannequin.jpg",
		Images:         []string{"/images/products/royal-heritage-wrap-side.jpg", "/images/products/royal-heritage-wrap-mannequin.jpg"},
		ReferenceImage: "/images/mannequins/gele-2-mannequin.jpg",
		Featured:       true,
		Stock:          12,
	},
	{
		ID:             "3",
		Name:           "Sapphire Shimmer Gele",
		Price:          95,
		Currency:       currencyGBP,
		Description:    "Glamorous royal blue and gold gele with sparkly, glittery texture. This eye-catching headwrap features shimmering metallic accents perfect for evening events and celebrations where you want to make a statement.",
		Category:       domain.CategoryModern,
		Color:          "Royal Blue & Gold",
		ColorDetail:    "in royal blue with glittering metallic gold accents",
		Image:          "/images/mannequins/gele-3-mannequin.jpg",
		Images:         []string{"/images/products/sapphire-shimmer-gele-side.jpg"},
		ReferenceImage: "/images/mannequins/gele-3-mannequin.jpg",
		Featured:       true,
		Stock:          18,
	},
	{
		ID:             "4",
		Name:           "Purple Majesty Gele",
		Price:          100,
		Currency:       currencyGBP,
		Description:    "Luxurious deep purple and gold gele with metallic threading. This regal headwrap combines rich plum tones with shimmering gold accents, creating an elegant look perfect for weddings and upscale occasions.",
		Category:       domain.CategoryTraditional,
		Color:          "Purple & Gold",
		ColorDetail:    "in deep plum purple with shimmering metallic gold threading",
		Image:          "/images/mannequins/gele-4-mannequin.jpg",
		Images:         []string{"/images/products/purple-majesty-gele-side.jpg"},
		ReferenceImage: "/images/mannequins/gele-4-mannequin.jpg",
		Featured:       false,
		Stock:          8,
	},
	{
		ID:             "5",
		Name:           "Bronze Elegance Gele",
		Price:          80,
		Currency:       currencyGBP,
		Description:    "Sophisticated black, bronze, and cream gele with geometric dotted pattern. This versatile headwrap features a modern take on traditional African prints, perfect for both formal and casual occasions.",
		Category:       domain.CategoryModern,
		Color:          "Black, Bronze & Cream",
		ColorDetail:    "in black with a bronze and cream geometric dotted pattern",
		Image:          "/images/mannequins/gele-5-mannequin.jpg",
		Images:         []string{"/images/products/bronze-elegance-gele-side.jpg", "/images/products/bronze-elegance-gele-mannequin.jpg"},
		ReferenceImage: "/images/mannequins/gele-5-mannequin.jpg",
		Featured:       false,
		Stock:          20,
	},
	{
		ID:             "6",
		Name:           "Rainbow Celebration Gele",
		Price:          95,
		Currency:       currencyGBP,
		Description:    "Vibrant multicolor gele featuring purple, burgundy, red, emerald green, and gold. This festive traditional print brings joy and energy to any celebration, perfect for those who love bold, colorful statements.",
		Category:       domain.CategoryTraditional,
		Color:          "Multicolor",
		ColorDetail:    "in a festive print of purple, burgundy, red, emerald green and gold",
		Image:          "/images/mannequins/gele-6-mannequin.jpg",
		Images:         []string{"/images/products/rainbow-celebration-gele-side.jpg"},
		ReferenceImage: "/images/mannequins/gele-6-mannequin.jpg",
		Featured:       true,
		Stock:          10,
	},
	{
		ID:             "7",
		Name:           "Autumn Sunset Gele",
		Price:          85,
		Currency:       currencyGBP,
		Description:    "Beautiful earth-tone gele with orange, teal, burgundy, and cream colors. This modern African print headwrap features warm, complementary tones perfect for transitional seasons and daytime events.",
		Category:       domain.CategoryModern,
		Color:          "Orange & Teal",
		ColorDetail:    "in warm earth tones of orange, teal, burgundy and cream",
		Image:          "/images/mannequins/gele-7-mannequin.jpg",
		Images:         []string{"/images/products/autumn-sunset-gele-side.jpg", "/images/products/autumn-sunset-gele-mannequin.jpg"},
		ReferenceImage: "/images/mannequins/gele-7-mannequin.jpg",
		Featured:       false,
		Stock:          14,
	},
	{
		ID:             "8",
		Name:           "Golden Emerald Stripe",
		Price:          110,
		Currency:       currencyGBP,
		Description:    "Opulent striped gele in gold, burgundy, and emerald green. This traditional aso-oke headwrap features bold horizontal stripes with metallic threading, creating a luxurious look for special occasions.",
		Category:       domain.CategoryTraditional,
		Color:          "Gold, Burgundy & Green",
		ColorDetail:    "with bold horizontal stripes of gold, burgundy and emerald green with metallic threading",
		Image:          "/images/mannequins/gele-8-mannequin.jpg",
		Images:         []string{"/images/products/golden-emerald-stripe-side.jpg", "/images/products/golden-emerald-stripe-mannequin.jpg"},
		ReferenceImage: "/images/mannequins/gele-8-mannequin.jpg",
		Featured:       true,
		Stock:          6,
	},
	{
		ID:             "9",
		Name:           "Kente Pride Gele",
		Price:          105,
		Currency:       currencyGBP,
		Description:    "Stunning kente-style gele in bright yellow, emerald green, and burgundy stripes. This traditional headwrap celebrates African heritage with its iconic color combination and geometric patterns, perfect for cultural events.",
		Category:       domain.CategoryTraditional,
		Color:          "Yellow, Green & Red",
		ColorDetail:    "in kente-style stripes of bright yellow, emerald green and burgundy",
		Image:          "/images/mannequins/gele-9-mannequin.jpg",
		Images:         []string{"/images/products/kente-pride-gele-side.jpg", "/images/products/kente-pride-gele-mannequin.jpg"},
		ReferenceImage: "/images/mannequins/gele-9-mannequin.jpg",
		Featured:       false,
		Stock:          16,
	},
}
