package controller

import (
	"github.com/gometeo/cityweather/internal/model"
)

// Route is which of the two weather views was requested.
type Route string

const (
	RouteDefault   Route = "default"
	RouteAlternate Route = "alternate"
)

// Path is the URL the route is served on.
func (r Route) Path() string {
	if r == RouteAlternate {
		return "/freedom"
	}
	return "/"
}

// Units is the unit system a fresh session starts with on this route.
func (r Route) Units() model.UnitSystem {
	if r == RouteAlternate {
		return model.UnitsImperial
	}
	return model.UnitsMetric
}

// RouteFor returns the route oriented to units.
func RouteFor(units model.UnitSystem) Route {
	if units == model.UnitsImperial {
		return RouteAlternate
	}
	return RouteDefault
}

type Action int

const (
	// ActionInitialize picks a random city and fills a new session.
	ActionInitialize Action = iota + 1
	// ActionReset clears the session and redirects to the same route.
	ActionReset
	// ActionFlip switches the unit system, keeps the city and refetches weather.
	ActionFlip
	// ActionRefresh refetches weather with the current city and units.
	ActionRefresh
)

func (a Action) String() string {
	switch a {
	case ActionInitialize:
		return "initialize"
	case ActionReset:
		return "reset"
	case ActionFlip:
		return "flip"
	case ActionRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

type transitionKey struct {
	hasSession bool
	units      model.UnitSystem
	route      Route
}

// transitions covers every (has session, units, route) triple with a dedicated
// action. Anything else refreshes.
var transitions = map[transitionKey]Action{
	{hasSession: false, route: RouteDefault}:   ActionInitialize,
	{hasSession: false, route: RouteAlternate}: ActionInitialize,

	{hasSession: true, units: model.UnitsMetric, route: RouteDefault}:     ActionReset,
	{hasSession: true, units: model.UnitsImperial, route: RouteAlternate}: ActionReset,

	{hasSession: true, units: model.UnitsMetric, route: RouteAlternate}: ActionFlip,
	{hasSession: true, units: model.UnitsImperial, route: RouteDefault}: ActionFlip,
}

// Decide looks up the action for a request. With resetOnRepeat off, requesting
// the route that matches the session's units refreshes instead of resetting.
func Decide(state *model.SessionState, route Route, resetOnRepeat bool) Action {
	key := transitionKey{hasSession: state.HasCity(), route: route}
	if key.hasSession {
		key.units = state.Units
	}

	action, ok := transitions[key]
	if !ok {
		return ActionRefresh
	}
	if action == ActionReset && !resetOnRepeat {
		return ActionRefresh
	}
	return action
}
