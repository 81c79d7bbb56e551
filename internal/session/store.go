// Package session keeps per-client SessionState on the server side. The browser
// only holds a signed cookie with the session id.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gometeo/cityweather/internal/model"
)

// Store persists session state by id. Get returns (nil, nil) for an unknown or
// expired id.
type Store interface {
	Get(ctx context.Context, id string) (*model.SessionState, error)
	Set(ctx context.Context, id string, state *model.SessionState) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

func encodeState(state *model.SessionState) ([]byte, error) {
	b, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode session state: %w", err)
	}
	return b, nil
}

func decodeState(b []byte) (*model.SessionState, error) {
	var state model.SessionState
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	return &state, nil
}
