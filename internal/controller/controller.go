// Package controller decides, per request, what happens to a client's session:
// which city it shows, which unit system is active, and whether the response is a
// rendered view or a redirect. It never touches the session store; the caller
// passes the current SessionState in and persists the Outcome's state.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gometeo/cityweather/internal/country"
	"github.com/gometeo/cityweather/internal/events"
	"github.com/gometeo/cityweather/internal/maps"
	"github.com/gometeo/cityweather/internal/model"
	"github.com/gometeo/cityweather/internal/weather"
)

const (
	nearbyLimit     = 5
	suggestionLimit = 5
)

// View names understood by the renderer.
const (
	ViewIndex   = "index"
	ViewFreedom = "freedom"
	ViewResults = "result"
)

// Catalog is the subset of the city catalog the controller uses.
type Catalog interface {
	FindByID(id int) (model.CityRecord, error)
	Random(pick func(n int) int) (model.CityRecord, error)
	Search(query string) []model.CityRecord
	Suggest(query string, limit int) []model.CityRecord
	Nearby(city model.CityRecord, limit int) []model.CityRecord
}

type OutcomeKind int

const (
	OutcomeRender OutcomeKind = iota
	OutcomeRedirect
)

// Outcome is the controller's answer to one request.
//
// State, when non-nil, is what the caller must persist. Clear asks the caller to
// drop the session instead. Both unset leaves the session untouched.
type Outcome struct {
	Kind     OutcomeKind
	Action   Action
	View     string
	Location string
	Clear    bool
	State    *model.SessionState
	Page     *Page
	Results  *Results
}

// Page is the data behind the weather views.
type Page struct {
	Route    Route
	City     model.CityRecord
	Weather  *model.WeatherSnapshot
	Units    model.UnitSystem
	Symbols  model.UnitSymbols
	Icon     string
	IconPath string
	Country  model.CountryInfo
	Map      maps.Map
	Nearby   []model.CityRecord
}

// Results is the data behind the search results view.
type Results struct {
	Query       string
	Cities      []model.CityRecord
	Suggestions []model.CityRecord
}

type Options struct {
	// ResetOnRepeat clears the session when a client requests the route that
	// already matches its unit system.
	ResetOnRepeat bool
	// Pick returns a random index in [0, n). Defaults to math/rand/v2.
	Pick func(n int) int
}

type Controller struct {
	catalog       Catalog
	weather       weather.Fetcher
	country       country.Fetcher
	events        events.Publisher
	pick          func(n int) int
	resetOnRepeat bool
	logger        *slog.Logger
}

func New(cat Catalog, wf weather.Fetcher, cf country.Fetcher, pub events.Publisher, opts Options, logger *slog.Logger) *Controller {
	pick := opts.Pick
	if pick == nil {
		pick = rand.Intn
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Controller{
		catalog:       cat,
		weather:       wf,
		country:       cf,
		events:        pub,
		pick:          pick,
		resetOnRepeat: opts.ResetOnRepeat,
		logger:        logger,
	}
}

// View handles a request for one of the two weather routes. state is nil for a
// client without a session.
func (c *Controller) View(ctx context.Context, state *model.SessionState, route Route) (Outcome, error) {
	if route != RouteDefault && route != RouteAlternate {
		return Outcome{}, fmt.Errorf("unknown route %q", route)
	}

	action := Decide(state, route, c.resetOnRepeat)
	c.logger.Debug("route transition", "route", route, "action", action)

	switch action {
	case ActionInitialize:
		city, err := c.catalog.Random(c.pick)
		if err != nil {
			return Outcome{}, fmt.Errorf("pick random city: %w", err)
		}
		next, err := c.selectCity(ctx, city, route.Units())
		if err != nil {
			return Outcome{}, err
		}
		c.publish(ctx, next, events.SourceRandom)
		return c.render(route, action, next), nil

	case ActionReset:
		return Outcome{
			Kind:     OutcomeRedirect,
			Action:   action,
			Location: route.Path(),
			Clear:    true,
		}, nil

	case ActionFlip:
		next := state.Clone()
		next.Units = state.Units.Opposite()
		if err := c.refreshWeather(ctx, next); err != nil {
			return Outcome{}, err
		}
		return c.render(route, action, next), nil

	default:
		next := state.Clone()
		if !next.Units.Valid() {
			next.Units = route.Units()
		}
		if err := c.refreshWeather(ctx, next); err != nil {
			return Outcome{}, err
		}
		return c.render(route, ActionRefresh, next), nil
	}
}

// Search runs the fuzzy search. A single match is selected right away and the
// client is sent back to the view matching its current unit system; anything
// else renders the results list.
func (c *Controller) Search(ctx context.Context, state *model.SessionState, query string) (Outcome, error) {
	matches := c.catalog.Search(query)
	c.logger.Debug("city search", "query", query, "matches", len(matches))

	if len(matches) != 1 {
		results := &Results{Query: query, Cities: matches}
		if len(matches) == 0 {
			results.Suggestions = c.catalog.Suggest(query, suggestionLimit)
		}
		return Outcome{Kind: OutcomeRender, View: ViewResults, Results: results}, nil
	}

	units := currentUnits(state)
	next, err := c.selectCity(ctx, matches[0], units)
	if err != nil {
		return Outcome{}, err
	}
	c.publish(ctx, next, events.SourceSearch)

	// Park the opposite unit system; the redirect target flips it back.
	next.Units = units.Opposite()
	return Outcome{
		Kind:     OutcomeRedirect,
		Location: RouteFor(units).Path(),
		State:    next,
	}, nil
}

// Select picks a city by catalog id and redirects to the default route, which
// then flips the parked imperial units to metric.
func (c *Controller) Select(ctx context.Context, state *model.SessionState, id int) (Outcome, error) {
	city, err := c.catalog.FindByID(id)
	if err != nil {
		return Outcome{}, err
	}

	next, err := c.selectCity(ctx, city, currentUnits(state))
	if err != nil {
		return Outcome{}, err
	}
	c.publish(ctx, next, events.SourceResult)

	next.Units = model.UnitsImperial
	return Outcome{
		Kind:     OutcomeRedirect,
		Location: RouteDefault.Path(),
		State:    next,
	}, nil
}

// selectCity builds a complete state around city: weather, icon and country.
func (c *Controller) selectCity(ctx context.Context, city model.CityRecord, units model.UnitSystem) (*model.SessionState, error) {
	snap, err := c.weather.Fetch(ctx, units, city)
	if err != nil {
		return nil, fmt.Errorf("weather for %s (%d): %w", city.Name, city.ID, err)
	}

	info, err := c.country.Fetch(ctx, city.Country)
	if err != nil {
		return nil, fmt.Errorf("country %s for %s (%d): %w", city.Country, city.Name, city.ID, err)
	}

	return &model.SessionState{
		City:    &city,
		Weather: snap,
		Units:   units,
		Icon:    weather.SelectIcon(snap.ConditionCode()),
		Country: info,
	}, nil
}

func (c *Controller) refreshWeather(ctx context.Context, state *model.SessionState) error {
	snap, err := c.weather.Fetch(ctx, state.Units, *state.City)
	if err != nil {
		return fmt.Errorf("weather for %s (%d): %w", state.City.Name, state.City.ID, err)
	}
	state.Weather = snap
	return nil
}

func (c *Controller) render(route Route, action Action, state *model.SessionState) Outcome {
	view := ViewIndex
	if route == RouteAlternate {
		view = ViewFreedom
	}

	city := *state.City
	return Outcome{
		Kind:   OutcomeRender,
		Action: action,
		View:   view,
		State:  state,
		Page: &Page{
			Route:    route,
			City:     city,
			Weather:  state.Weather,
			Units:    state.Units,
			Symbols:  state.Units.Symbols(),
			Icon:     state.Icon,
			IconPath: weather.IconPath(state.Icon),
			Country:  state.Country,
			Map:      maps.Build(city, state.Icon),
			Nearby:   c.catalog.Nearby(city, nearbyLimit),
		},
	}
}

func (c *Controller) publish(ctx context.Context, state *model.SessionState, source string) {
	ev := events.CitySelected{
		CityID:    state.City.ID,
		City:      state.City.Name,
		Country:   state.City.Country,
		Source:    source,
		Units:     string(state.Units),
		Timestamp: time.Now(),
	}
	if err := c.events.Publish(ctx, ev); err != nil {
		c.logger.Warn("selection event not published", "city_id", ev.CityID, "error", err)
	}
}

// currentUnits is the session's unit system, metric when there is none.
func currentUnits(state *model.SessionState) model.UnitSystem {
	if state != nil && state.Units.Valid() {
		return state.Units
	}
	return model.UnitsMetric
}
