package model

// WeatherSnapshot - current conditions for one city as returned by OpenWeatherMap,
// plus the derived wind direction.
type WeatherSnapshot struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	Coord      Coord        `json:"coord"`
	Weather    []Condition  `json:"weather"`
	Main       MainReadings `json:"main"`
	Visibility int          `json:"visibility"`
	Wind       Wind         `json:"wind"`
	Clouds     Clouds       `json:"clouds"`
	Sys        Sys          `json:"sys"`
	Timezone   int          `json:"timezone"`
	Dt         int64        `json:"dt"`
}

type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type MainReadings struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

// Wind - Deg is nil when the upstream payload omits it; Dir is then empty.
type Wind struct {
	Speed float64  `json:"speed"`
	Deg   *float64 `json:"deg,omitempty"`
	Gust  float64  `json:"gust,omitempty"`
	Dir   string   `json:"dir"`
}

type Clouds struct {
	All int `json:"all"`
}

type Sys struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// ConditionCode returns weather[0].id, or 0 when the payload carries no conditions.
func (w *WeatherSnapshot) ConditionCode() int {
	if w == nil || len(w.Weather) == 0 {
		return 0
	}
	return w.Weather[0].ID
}

// Description returns weather[0].description, if any.
func (w *WeatherSnapshot) Description() string {
	if w == nil || len(w.Weather) == 0 {
		return ""
	}
	return w.Weather[0].Description
}
