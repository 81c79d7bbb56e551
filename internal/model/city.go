package model

// CityRecord - one entry of the city dataset. Never mutated after load.
type CityRecord struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	State   string `json:"state"`
	Country string `json:"country"`
	Coord   Coord  `json:"coord"`
}

type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Label renders "Name, State, CC" skipping the empty parts.
func (c CityRecord) Label() string {
	label := c.Name
	if c.State != "" {
		label += ", " + c.State
	}
	if c.Country != "" {
		label += ", " + c.Country
	}
	return label
}
