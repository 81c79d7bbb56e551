package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gometeo/cityweather/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleState() *model.SessionState {
	deg := 90.0
	return &model.SessionState{
		City:    &model.CityRecord{ID: 2643743, Name: "London", Country: "GB", Coord: model.Coord{Lat: 51.5, Lon: -0.12}},
		Weather: &model.WeatherSnapshot{Weather: []model.Condition{{ID: 500}}, Wind: model.Wind{Speed: 3, Deg: &deg, Dir: "E"}},
		Units:   model.UnitsImperial,
		Icon:    "rain",
		Country: model.CountryInfo{"name": "United Kingdom", "population": float64(65110000)},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	got, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	state := sampleState()
	require.NoError(t, store.Set(ctx, "abc", state))

	// mutations after Set are not visible through the store
	state.Units = model.UnitsMetric

	got, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.UnitsImperial, got.Units)
	assert.Equal(t, 2643743, got.City.ID)
	assert.Equal(t, "E", got.Weather.Wind.Dir)
	require.NotNil(t, got.Weather.Wind.Deg)
	assert.Equal(t, 90.0, *got.Weather.Wind.Deg)
	assert.Equal(t, "United Kingdom", got.Country.Field("name"))

	require.NoError(t, store.Delete(ctx, "abc"))
	got, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, store.Ping(ctx))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(20 * time.Millisecond)
	require.NoError(t, store.Set(context.Background(), "abc", sampleState()))

	time.Sleep(40 * time.Millisecond)

	got, err := store.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManager_RoundTrip(t *testing.T) {
	mgr := NewManager(NewMemoryStore(time.Hour), "test-secret", time.Hour, false, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s, err := mgr.Load(req)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Nil(t, s.State)

	rec := httptest.NewRecorder()
	require.NoError(t, mgr.Save(rec, req, s, sampleState()))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	next := httptest.NewRequest(http.MethodGet, "/freedom", nil)
	next.AddCookie(cookies[0])
	loaded, err := mgr.Load(next)
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	require.NotNil(t, loaded.State)
	assert.Equal(t, "London", loaded.State.City.Name)

	require.NoError(t, mgr.Clear(next, loaded))
	assert.Nil(t, loaded.State)

	again, err := mgr.Load(next)
	require.NoError(t, err)
	assert.Equal(t, s.ID, again.ID)
	assert.Nil(t, again.State)
}

func TestManager_RejectsForeignCookie(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	issuer := NewManager(store, "secret-one", time.Hour, false, testLogger())
	other := NewManager(store, "secret-two", time.Hour, false, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s, err := issuer.Load(req)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, issuer.Save(rec, req, s, sampleState()))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(rec.Result().Cookies()[0])
	loaded, err := other.Load(next)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, loaded.ID)
	assert.Nil(t, loaded.State)

	tampered := httptest.NewRequest(http.MethodGet, "/", nil)
	tampered.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-signed-value"})
	loaded, err = issuer.Load(tampered)
	require.NoError(t, err)
	assert.Nil(t, loaded.State)
}
