package models

// Preference keys
const (
	PrefTheme        = "theme"
	PrefLanguage     = "language"
	PrefOpenSubmenu  = "open_submenu"
	PrefSelectedView = "selected_view"
)

// Theme values
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// DefaultPreferences are returned for keys a user never set
var DefaultPreferences = map[string]string{
	PrefTheme:    ThemeLight,
	PrefLanguage: "vi",
}
