package model

// UnitSystem - measurement convention used for weather requests and display.
type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
)

// UnitSymbols - display suffixes for temperature and wind speed.
type UnitSymbols struct {
	Temp  string `json:"temp"`
	Speed string `json:"speed"`
}

var unitSymbols = map[UnitSystem]UnitSymbols{
	UnitsMetric:   {Temp: "C", Speed: "m/s"},
	UnitsImperial: {Temp: "F", Speed: "mph"},
}

func (u UnitSystem) Valid() bool {
	_, ok := unitSymbols[u]
	return ok
}

// Opposite returns the other unit system. Unknown values are treated as metric.
func (u UnitSystem) Opposite() UnitSystem {
	if u == UnitsMetric || !u.Valid() {
		return UnitsImperial
	}
	return UnitsMetric
}

func (u UnitSystem) Symbols() UnitSymbols {
	return unitSymbols[u]
}

// SessionState - everything remembered between requests of one client.
type SessionState struct {
	City    *CityRecord      `json:"city,omitempty"`
	Weather *WeatherSnapshot `json:"weather,omitempty"`
	Units   UnitSystem       `json:"units"`
	Icon    string           `json:"icon"`
	Country CountryInfo      `json:"country,omitempty"`
}

// HasCity reports whether the session has been initialized with a city.
func (s *SessionState) HasCity() bool {
	return s != nil && s.City != nil
}

// Clone returns a shallow copy so callers can mutate the top-level fields freely.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return &SessionState{}
	}
	cp := *s
	return &cp
}
