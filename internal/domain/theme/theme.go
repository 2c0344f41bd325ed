package theme

// Recognized theme values.
const (
	Dark  = "dark"
	Light = "light"
)

// Default is the theme applied when no preference has been saved.
const Default = Dark

// Normalize maps a stored preference to a renderable theme. The legacy
// "light" value is normalized to dark, as are unknown values; the preference
// is keyed independent of any catalog record.
// PRE: none
// POST: returns Dark or Light, never an unrecognized value
func Normalize(v string) string {
	switch v {
	case Dark:
		return Dark
	case Light:
		// Legacy preference from the pre-dark-only UI.
		return Dark
	default:
		return Default
	}
}
