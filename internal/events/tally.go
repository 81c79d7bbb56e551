package events

import (
	"sort"
	"sync"
)

type CityCount struct {
	CityID  int
	City    string
	Country string
	Count   int
	Sources map[string]int
}

// Tally counts selections per city. Safe for concurrent use.
type Tally struct {
	mu     sync.Mutex
	counts map[int]*CityCount
	total  int
}

func NewTally() *Tally {
	return &Tally{counts: make(map[int]*CityCount)}
}

func (t *Tally) Add(ev CitySelected) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cc, ok := t.counts[ev.CityID]
	if !ok {
		cc = &CityCount{CityID: ev.CityID, City: ev.City, Country: ev.Country, Sources: make(map[string]int)}
		t.counts[ev.CityID] = cc
	}
	cc.Count++
	cc.Sources[ev.Source]++
	t.total++
}

func (t *Tally) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Top returns the n most selected cities, ties broken by city id.
func (t *Tally) Top(n int) []CityCount {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]CityCount, 0, len(t.counts))
	for _, cc := range t.counts {
		cp := *cc
		cp.Sources = make(map[string]int, len(cc.Sources))
		for k, v := range cc.Sources {
			cp.Sources[k] = v
		}
		out = append(out, cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].CityID < out[j].CityID
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
