// Package meteolt is a client for the public meteo.lt v1 REST API. It covers
// the three reference collections (places, meteorological stations,
// hydrological stations), long-term place forecasts and station observations.
//
// Reference collections are cached on first fetch and served from memory
// until ClearCache or a forced refresh; forecast and observation documents
// are always fetched live and returned with local-time fields injected next
// to the upstream UTC timestamps. The client never retries: every failure is
// propagated as an *APIError and a failed refresh leaves previously cached
// data untouched.
package meteolt

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is the production API host with its version prefix.
	DefaultBaseURL = "https://api.meteo.lt/v1"

	// DefaultTimeout bounds the wait for a response on each request.
	DefaultTimeout = 30 * time.Second

	placesEndpoint        = "/places"
	stationsEndpoint      = "/stations"
	hydroStationsEndpoint = "/hydro-stations"

	// Only Lithuanian places are retained in the cached collection; the API
	// also lists a handful of foreign reference points.
	placeCountryCode = "LT"
)

// Client talks to the meteo.lt API through a borrowed *http.Client. The
// client owns its reference cache but not the HTTP client; it never closes
// or reconfigures the transport it is given.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	cache      refCache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout overrides the per-request response deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a Client on top of the given shared HTTP client.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Places returns all Lithuanian places, cached after the first successful
// fetch. forceUpdate bypasses the cache and replaces it on success; on
// failure the previous cached value stays usable.
func (c *Client) Places(ctx context.Context, forceUpdate bool) ([]Place, error) {
	if cached, ok := c.cache.getPlaces(); ok && !forceUpdate {
		return cached, nil
	}

	var all []Place
	if err := c.request(ctx, placesEndpoint, nil, &all); err != nil {
		return nil, err
	}

	// Filter once, at fill time. Cached reads never re-filter.
	places := make([]Place, 0, len(all))
	for _, place := range all {
		if place.CountryCode == placeCountryCode {
			places = append(places, place)
		}
	}
	c.cache.setPlaces(places)
	return places, nil
}

// Stations returns all meteorological stations, cached after the first
// successful fetch.
func (c *Client) Stations(ctx context.Context, forceUpdate bool) ([]Station, error) {
	if cached, ok := c.cache.getStations(); ok && !forceUpdate {
		return cached, nil
	}

	var stations []Station
	if err := c.request(ctx, stationsEndpoint, nil, &stations); err != nil {
		return nil, err
	}
	c.cache.setStations(stations)
	return stations, nil
}

// HydroStations returns all hydrological stations, cached after the first
// successful fetch.
func (c *Client) HydroStations(ctx context.Context, forceUpdate bool) ([]HydroStation, error) {
	if cached, ok := c.cache.getHydroStations(); ok && !forceUpdate {
		return cached, nil
	}

	var stations []HydroStation
	if err := c.request(ctx, hydroStationsEndpoint, nil, &stations); err != nil {
		return nil, err
	}
	c.cache.setHydroStations(stations)
	return stations, nil
}

// PlaceForecast fetches the long-term forecast document for a place code.
// Each forecastTimestamps element gains a "forecastTime" local-time sibling
// next to its "forecastTimeUtc". Index 0 is the current conditions entry.
// Unknown codes surface as a not-found error from the API.
func (c *Client) PlaceForecast(ctx context.Context, placeCode string) (Document, error) {
	endpoint := placesEndpoint + "/" + url.PathEscape(placeCode) + "/forecasts/long-term"
	return c.fetchDocument(ctx, endpoint)
}

// StationObservations fetches an observation document for a station code and
// date ("latest" or "YYYY-MM-DD"). Each observations element gains an
// "observationTime" local-time sibling; the last element is the most recent.
func (c *Client) StationObservations(ctx context.Context, stationCode, date string) (Document, error) {
	if date == "" {
		date = "latest"
	}
	endpoint := stationsEndpoint + "/" + url.PathEscape(stationCode) + "/observations/" + url.PathEscape(date)
	return c.fetchDocument(ctx, endpoint)
}

// HydroObservations fetches a hydrological observation document for a hydro
// station code, observation type ("measured") and date ("latest" or
// "YYYY-MM-DD").
func (c *Client) HydroObservations(ctx context.Context, stationCode, observationType, date string) (Document, error) {
	if observationType == "" {
		observationType = "measured"
	}
	if date == "" {
		date = "latest"
	}
	endpoint := hydroStationsEndpoint + "/" + url.PathEscape(stationCode) +
		"/observations/" + url.PathEscape(observationType) + "/" + url.PathEscape(date)
	return c.fetchDocument(ctx, endpoint)
}

// ClearCache drops all three cached reference collections. The next read of
// each collection goes back to the network.
func (c *Client) ClearCache() {
	c.cache.clear()
}

func (c *Client) fetchDocument(ctx context.Context, endpoint string) (Document, error) {
	var doc Document
	if err := c.request(ctx, endpoint, nil, &doc); err != nil {
		return nil, err
	}
	return enrichLocalTimes(doc)
}
