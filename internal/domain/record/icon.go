package record

import "strings"

// Icon is the closed set of facility icons the consoles know how to draw.
type Icon string

const (
	IconWifi            Icon = "wifi"
	IconPool            Icon = "pool"
	IconParking         Icon = "parking"
	IconGym             Icon = "gym"
	IconSpa             Icon = "spa"
	IconRestaurant      Icon = "restaurant"
	IconBar             Icon = "bar"
	IconBreakfast       Icon = "breakfast"
	IconAirConditioning Icon = "air_conditioning"
	IconUnknown         Icon = "unknown"
)

var iconGlyphs = map[Icon]string{
	IconWifi:            "≋",
	IconPool:            "~",
	IconParking:         "P",
	IconGym:             "¶",
	IconSpa:             "✿",
	IconRestaurant:      "♨",
	IconBar:             "♪",
	IconBreakfast:       "☕",
	IconAirConditioning: "❄",
	IconUnknown:         "•",
}

// ParseIcon never fails: anything outside the known set is IconUnknown.
func ParseIcon(raw string) Icon {
	icon := Icon(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := iconGlyphs[icon]; !ok || icon == IconUnknown {
		return IconUnknown
	}
	return icon
}

func (i Icon) Known() bool {
	return ParseIcon(string(i)) != IconUnknown
}

func (i Icon) Glyph() string {
	if glyph, ok := iconGlyphs[i]; ok {
		return glyph
	}
	return iconGlyphs[IconUnknown]
}

func KnownIcons() []Icon {
	return []Icon{IconWifi, IconPool, IconParking, IconGym, IconSpa, IconRestaurant, IconBar, IconBreakfast, IconAirConditioning}
}
