// Package catalog holds the immutable list of known cities and the lookups over it:
// by id, random pick, fuzzy name search, typo suggestions and nearby cities.
package catalog

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/geo/s2"

	"github.com/gometeo/cityweather/internal/model"
)

var ErrCityNotFound = errors.New("city not found")

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	cities    []model.CityRecord
	normNames []string
	byID      map[int]int
	cellIndex map[s2.CellID][]int
}

// datasetEntry mirrors one element of city.list.json. Pointers let Load tell a
// missing field from a zero value.
type datasetEntry struct {
	ID      *int         `json:"id"`
	Name    *string      `json:"name"`
	State   string       `json:"state"`
	Country string       `json:"country"`
	Coord   *model.Coord `json:"coord"`
}

// Load reads the dataset at path. A ".gz" suffix is decompressed on the fly.
func Load(path string) (*Catalog, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open city dataset: %w", err)
	}
	defer fh.Close()

	var r io.Reader = fh
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(fh)
		if err != nil {
			return nil, fmt.Errorf("open gzip city dataset: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	return Read(r)
}

// Read decodes a dataset from r and builds the catalog.
func Read(r io.Reader) (*Catalog, error) {
	var entries []datasetEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode city dataset: %w", err)
	}

	cities := make([]model.CityRecord, len(entries))
	for i, e := range entries {
		switch {
		case e.ID == nil:
			return nil, fmt.Errorf("city dataset entry %d: missing id", i)
		case e.Name == nil:
			return nil, fmt.Errorf("city dataset entry %d (id %d): missing name", i, *e.ID)
		case e.Coord == nil:
			return nil, fmt.Errorf("city dataset entry %d (id %d): missing coord", i, *e.ID)
		}
		cities[i] = model.CityRecord{
			ID:      *e.ID,
			Name:    *e.Name,
			State:   e.State,
			Country: e.Country,
			Coord:   *e.Coord,
		}
	}

	return New(cities)
}

// New builds a catalog over cities, keeping their order. Ids must be unique.
func New(cities []model.CityRecord) (*Catalog, error) {
	c := &Catalog{
		cities:    make([]model.CityRecord, len(cities)),
		normNames: make([]string, len(cities)),
		byID:      make(map[int]int, len(cities)),
	}
	copy(c.cities, cities)

	for i, city := range c.cities {
		if prev, dup := c.byID[city.ID]; dup {
			return nil, fmt.Errorf("duplicate city id %d (entries %d and %d)", city.ID, prev, i)
		}
		c.byID[city.ID] = i
		c.normNames[i] = normalize(city.Name)
	}
	c.buildCellIndex()

	return c, nil
}

func (c *Catalog) Len() int {
	return len(c.cities)
}

// All returns a copy of every record in dataset order.
func (c *Catalog) All() []model.CityRecord {
	out := make([]model.CityRecord, len(c.cities))
	copy(out, c.cities)
	return out
}

// FindByID returns the record with the given id or ErrCityNotFound.
func (c *Catalog) FindByID(id int) (model.CityRecord, error) {
	idx, ok := c.byID[id]
	if !ok {
		return model.CityRecord{}, fmt.Errorf("%w: id %d", ErrCityNotFound, id)
	}
	return c.cities[idx], nil
}

// Random returns the record at pick(Len()). pick must return a value in [0, n).
func (c *Catalog) Random(pick func(n int) int) (model.CityRecord, error) {
	if len(c.cities) == 0 {
		return model.CityRecord{}, fmt.Errorf("%w: catalog is empty", ErrCityNotFound)
	}
	idx := pick(len(c.cities))
	if idx < 0 || idx >= len(c.cities) {
		return model.CityRecord{}, fmt.Errorf("random index %d out of range [0, %d)", idx, len(c.cities))
	}
	return c.cities[idx], nil
}
