// Package events publishes city selections to Kafka and tallies them on the
// consuming side.
package events

import (
	"context"
	"time"
)

// Selection sources.
const (
	SourceRandom = "random"
	SourceSearch = "search"
	SourceResult = "result"
)

// CitySelected is emitted whenever a session lands on a new city.
type CitySelected struct {
	CityID    int       `json:"city_id"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	Source    string    `json:"source"`
	Units     string    `json:"units"`
	Timestamp time.Time `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, ev CitySelected) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, CitySelected) error { return nil }
func (NopPublisher) Close() error                                { return nil }
