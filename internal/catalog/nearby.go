package catalog

import (
	"sort"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/gometeo/cityweather/internal/model"
)

const (
	// Level 6 cells are roughly 150km across, so a 300km cap is covered by a
	// handful of them.
	s2CellLevel = 6

	nearbyRadiusKm = 300.0
	earthRadiusKm  = 6371.01
)

func (c *Catalog) buildCellIndex() {
	c.cellIndex = make(map[s2.CellID][]int)
	for i, city := range c.cities {
		cell := s2.CellIDFromLatLng(latLng(city.Coord)).Parent(s2CellLevel)
		c.cellIndex[cell] = append(c.cellIndex[cell], i)
	}
}

// Nearby returns up to limit other cities within nearbyRadiusKm of city,
// closest first.
func (c *Catalog) Nearby(city model.CityRecord, limit int) []model.CityRecord {
	if limit <= 0 {
		return nil
	}

	center := latLng(city.Coord)
	if !center.IsValid() {
		return nil
	}
	region := s2.CapFromCenterAngle(s2.PointFromLatLng(center), s1.Angle(nearbyRadiusKm/earthRadiusKm))
	coverer := &s2.RegionCoverer{MinLevel: s2CellLevel, MaxLevel: s2CellLevel, MaxCells: 32}

	type candidate struct {
		idx  int
		dist float64
	}
	var candidates []candidate
	for _, cell := range coverer.Covering(region) {
		for _, idx := range c.cellIndex[cell] {
			other := c.cities[idx]
			if other.ID == city.ID {
				continue
			}
			dist := float64(center.Distance(latLng(other.Coord))) * earthRadiusKm
			if dist > nearbyRadiusKm {
				continue
			}
			candidates = append(candidates, candidate{idx: idx, dist: dist})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].idx < candidates[j].idx
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]model.CityRecord, len(candidates))
	for i, cand := range candidates {
		out[i] = c.cities[cand.idx]
	}
	return out
}

func latLng(c model.Coord) s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat, c.Lon)
}
