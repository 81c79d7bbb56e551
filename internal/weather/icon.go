package weather

const (
	IconClear   = "clear"
	IconThunder = "thunder"
	IconDrizzle = "drizzle"
	IconRain    = "rain"
	IconSnow    = "snow"
	IconHaze    = "haze"
	IconClouds  = "clouds"
)

// SelectIcon maps an OpenWeatherMap condition code to an icon identifier.
// Codes outside the known groups fall back to clouds.
func SelectIcon(code int) string {
	switch {
	case code == 800:
		return IconClear
	case code >= 200 && code <= 232:
		return IconThunder
	case code >= 300 && code <= 321:
		return IconDrizzle
	case code >= 500 && code <= 531:
		return IconRain
	case code >= 600 && code <= 622:
		return IconSnow
	case code >= 700 && code <= 781:
		return IconHaze
	default:
		return IconClouds
	}
}

// IconPath is the static asset served for an icon identifier.
func IconPath(icon string) string {
	if icon == "" {
		icon = IconClouds
	}
	return "/static/icons/" + icon + ".png"
}
