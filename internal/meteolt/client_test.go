package meteolt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placesJSON = `[
	{"code": "vilnius", "name": "Vilnius", "countryCode": "LT",
	 "coordinates": {"latitude": 54.687157, "longitude": 25.279652}},
	{"code": "kaunas", "name": "Kaunas", "countryCode": "LT",
	 "coordinates": {"latitude": 54.898521, "longitude": 23.903597}},
	{"code": "riga", "name": "Riga", "countryCode": "LV",
	 "coordinates": {"latitude": 56.946285, "longitude": 24.105078}}
]`

const forecastJSON = `{
	"place": {"code": "vilnius", "name": "Vilnius", "countryCode": "LT",
	          "coordinates": {"latitude": 54.687157, "longitude": 25.279652}},
	"forecastType": "long-term",
	"forecastCreationTimeUtc": "2024-12-22 10:00:00",
	"forecastTimestamps": [
		{"forecastTimeUtc": "2024-12-22 12:00:00", "airTemperature": 2.5,
		 "windSpeed": 4, "conditionCode": "cloudy"},
		{"forecastTimeUtc": "2024-12-22 13:00:00", "airTemperature": 2.1,
		 "windSpeed": 5, "conditionCode": "light-rain"}
	]
}`

const hydroObservationsJSON = `{
	"station": {"code": "vilniaus-neris-vms", "name": "Vilniaus VMS",
	            "waterBody": "Neris",
	            "coordinates": {"latitude": 54.69, "longitude": 25.28}},
	"observations": [
		{"observationTimeUtc": "2024-12-22 12:00:00",
		 "waterLevel": 123.4, "waterTemperature": 15.6}
	]
}`

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), WithBaseURL(srv.URL))
}

func TestPlacesCachedAfterFirstFetch(t *testing.T) {
	var calls int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		jsonHandler(placesJSON)(w, r)
	}))
	ctx := context.Background()

	first, err := client.Places(ctx, false)
	require.NoError(t, err)
	second, err := client.Places(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls), "two non-forced reads should issue one request")

	_, err = client.Places(ctx, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt64(&calls), "forced read should refetch")

	client.ClearCache()
	_, err = client.Places(ctx, false)
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt64(&calls), "read after clear should refetch")
}

func TestPlacesFilteredToLithuania(t *testing.T) {
	client := newTestClient(t, jsonHandler(placesJSON))

	places, err := client.Places(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, places, 2)
	for _, place := range places {
		assert.Equal(t, "LT", place.CountryCode)
	}
	assert.Equal(t, "vilnius", places[0].Code)
	assert.Equal(t, Coordinates{Latitude: 54.687157, Longitude: 25.279652}, places[0].Coordinates)
}

func TestFailedRefreshKeepsCachedValue(t *testing.T) {
	var calls int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		jsonHandler(placesJSON)(w, r)
	}))
	ctx := context.Background()

	good, err := client.Places(ctx, false)
	require.NoError(t, err)

	_, err = client.Places(ctx, true)
	require.Error(t, err)
	assert.True(t, IsConnection(err))

	// The prior cached value must survive the failed forced refresh.
	cached, err := client.Places(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, good, cached)
	assert.EqualValues(t, 2, atomic.LoadInt64(&calls))
}

func TestStationsAndHydroStationsCached(t *testing.T) {
	var calls int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/stations":
			w.Write([]byte(`[{"code": "vilniaus-ams", "name": "Vilniaus AMS",
				"coordinates": {"latitude": 54.625992, "longitude": 25.107064}}]`))
		case "/hydro-stations":
			w.Write([]byte(`[{"code": "vilniaus-neris-vms", "name": "Vilniaus VMS",
				"waterBody": "Neris",
				"coordinates": {"latitude": 54.69, "longitude": 25.28}}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	ctx := context.Background()

	stations, err := client.Stations(ctx, false)
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "vilniaus-ams", stations[0].Code)

	hydro, err := client.HydroStations(ctx, false)
	require.NoError(t, err)
	require.Len(t, hydro, 1)
	assert.Equal(t, "Neris", hydro[0].WaterBody)

	_, err = client.Stations(ctx, false)
	require.NoError(t, err)
	_, err = client.HydroStations(ctx, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt64(&calls), "each collection should be fetched once")
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"not found", http.StatusNotFound, IsNotFound},
		{"rate limited", http.StatusTooManyRequests, IsRateLimited},
		{"server error", http.StatusInternalServerError, IsConnection},
		{"bad gateway", http.StatusBadGateway, IsConnection},
		{"other non-2xx", http.StatusTeapot, func(err error) bool { return codeOf(err) == ErrCodeRequest }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))

			_, err := client.Places(context.Background(), false)
			require.Error(t, err)
			assert.True(t, tc.check(err), "unexpected error: %v", err)

			var apiErr *APIError
			assert.True(t, errors.As(err, &apiErr), "every failure must be an *APIError")
		})
	}
}

func TestForecastNotFoundForUnknownCode(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places/no-such-place/forecasts/long-term", r.URL.Path)
		http.NotFound(w, r)
	}))

	_, err := client.PlaceForecast(context.Background(), "no-such-place")
	assert.True(t, IsNotFound(err))
}

func TestTimeoutMapsToTimeoutError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	client.timeout = 50 * time.Millisecond

	_, err := client.Places(context.Background(), false)
	assert.True(t, IsTimeout(err), "unexpected error: %v", err)
}

func TestConnectionFaultMapsToConnectionError(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(placesJSON))
	url := srv.URL
	srv.Close()

	client := NewClient(&http.Client{}, WithBaseURL(url))

	_, err := client.Places(context.Background(), false)
	require.Error(t, err)
	assert.True(t, IsConnection(err), "unexpected error: %v", err)

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestNonJSONBodyMapsToFormatError(t *testing.T) {
	t.Run("wrong content type", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>maintenance</html>"))
		}))

		_, err := client.Places(context.Background(), false)
		assert.True(t, IsFormat(err), "unexpected error: %v", err)
	})

	t.Run("undecodable body", func(t *testing.T) {
		client := newTestClient(t, jsonHandler(`{"truncated": `))

		_, err := client.PlaceForecast(context.Background(), "vilnius")
		assert.True(t, IsFormat(err), "unexpected error: %v", err)
	})
}

func TestAbortedRequestLeavesCacheEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Places(ctx, false)
	require.Error(t, err)

	_, populated := client.cache.getPlaces()
	assert.False(t, populated, "aborted fetch must not populate the cache")
}

func TestForecastEnrichment(t *testing.T) {
	client := newTestClient(t, jsonHandler(forecastJSON))

	doc, err := client.PlaceForecast(context.Background(), "vilnius")
	require.NoError(t, err)

	entries, err := doc.ObjectsField("forecastTimestamps")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	current := entries[0]
	localTime, err := current.StringField("forecastTime")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-22T14:00:00+02:00", localTime)

	// The original fields must be untouched.
	utc, err := current.StringField("forecastTimeUtc")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-22 12:00:00", utc)
	temp, err := current.NumberField("airTemperature")
	require.NoError(t, err)
	assert.Equal(t, 2.5, temp)

	// Non-array and non-sequence fields stay as they were.
	created, err := doc.StringField("forecastCreationTimeUtc")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-22 10:00:00", created)
}

func TestHydroObservationsEndToEnd(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hydro-stations/vilniaus-neris-vms/observations/measured/latest", r.URL.Path)
		jsonHandler(hydroObservationsJSON)(w, r)
	}))

	doc, err := client.HydroObservations(context.Background(), "vilniaus-neris-vms", "measured", "latest")
	require.NoError(t, err)

	observations, err := doc.ObjectsField("observations")
	require.NoError(t, err)
	require.NotEmpty(t, observations)

	latest := observations[len(observations)-1]
	waterLevel, err := latest.NumberField("waterLevel")
	require.NoError(t, err)
	assert.Equal(t, 123.4, waterLevel)

	localTime, err := latest.StringField("observationTime")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-22T14:00:00+02:00", localTime)
}

func TestObservationDatesDefaultAndEscape(t *testing.T) {
	var path string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		jsonHandler(`{"observations": []}`)(w, r)
	}))
	ctx := context.Background()

	_, err := client.StationObservations(ctx, "vilniaus-ams", "")
	require.NoError(t, err)
	assert.Equal(t, "/stations/vilniaus-ams/observations/latest", path)

	_, err = client.HydroObservations(ctx, "a/b", "", "")
	require.NoError(t, err)
	assert.Equal(t, "/hydro-stations/a%2Fb/observations/measured/latest", path)
}
