package model

// RoutePreference selects which kind of paths navigation prefers.
type RoutePreference string

const (
	RouteIndoor  RoutePreference = "Indoor"
	RouteOutdoor RoutePreference = "Outdoor"
	RouteBoth    RoutePreference = "Both"
)

// Theme is the app colour theme.
type Theme string

const (
	ThemeDefault   Theme = "Default"
	ThemeRITColors Theme = "RIT Colors"
	ThemeDark      Theme = "Dark"
	ThemeLight     Theme = "Light"
)

// Settings are the user preferences shown on the settings tab.
type Settings struct {
	RoutePreference     RoutePreference `json:"routePreference"`
	AccessibilityRoutes bool            `json:"accessibilityRoutes"`
	DarkMode            bool            `json:"darkMode"`
	Theme               Theme           `json:"theme"`
	EnableAR            bool            `json:"enableAR"`
	Notifications       bool            `json:"notifications"`
}

// DefaultSettings returns the settings a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		RoutePreference: RouteBoth,
		Theme:           ThemeDefault,
		EnableAR:        true,
		Notifications:   true,
	}
}
