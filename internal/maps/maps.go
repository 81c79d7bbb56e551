// Package maps builds the configuration consumed by the Google Maps widget on
// the weather views.
package maps

import (
	"github.com/gometeo/cityweather/internal/model"
	"github.com/gometeo/cityweather/internal/weather"
)

const (
	Identifier    = "karta"
	DefaultZoom   = 5
	MapTypeHybrid = "HYBRID"
	fillStyle     = "height: 100%; width: 100%; margin: 0px"
)

type Marker struct {
	Icon string  `json:"icon"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Map is serialized into the page and read by the widget's init script.
type Map struct {
	Identifier        string   `json:"identifier"`
	Lat               float64  `json:"lat"`
	Lng               float64  `json:"lng"`
	Markers           []Marker `json:"markers"`
	Zoom              int      `json:"zoom"`
	MapType           string   `json:"mapType"`
	MapTypeControl    bool     `json:"mapTypeControl"`
	FullscreenControl bool     `json:"fullscreenControl"`
	ScaleControl      bool     `json:"scaleControl"`
	Style             string   `json:"style"`
}

// Build centers the map on city with a single marker drawn with icon.
func Build(city model.CityRecord, icon string) Map {
	return Map{
		Identifier: Identifier,
		Lat:        city.Coord.Lat,
		Lng:        city.Coord.Lon,
		Markers: []Marker{{
			Icon: weather.IconPath(icon),
			Lat:  city.Coord.Lat,
			Lng:  city.Coord.Lon,
		}},
		Zoom:    DefaultZoom,
		MapType: MapTypeHybrid,
		Style:   fillStyle,
	}
}
