package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tomasrudz/meteolt-bridge/internal/discovery"
	"github.com/tomasrudz/meteolt-bridge/internal/meteolt"
	"github.com/tomasrudz/meteolt-bridge/internal/store"
)

var validate = validator.New()

// WeatherClient is the surface of the meteo.lt client the API exposes.
type WeatherClient interface {
	Places(ctx context.Context, forceUpdate bool) ([]meteolt.Place, error)
	Stations(ctx context.Context, forceUpdate bool) ([]meteolt.Station, error)
	HydroStations(ctx context.Context, forceUpdate bool) ([]meteolt.HydroStation, error)
	PlaceForecast(ctx context.Context, placeCode string) (meteolt.Document, error)
	StationObservations(ctx context.Context, stationCode, date string) (meteolt.Document, error)
	HydroObservations(ctx context.Context, stationCode, observationType, date string) (meteolt.Document, error)
	ClearCache()
}

// Snapshots is the read side of the snapshot store.
type Snapshots interface {
	GetLatest(feed string) (store.Snapshot, error)
	GetRange(feed string, from, to time.Time) ([]store.Snapshot, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, client WeatherClient, snapshots Snapshots) {
	v1 := app.Group("/api/v1")

	// Latest polled readings per feed.
	v1.Get("/readings/:feed", func(c *fiber.Ctx) error {
		feed := c.Params("feed")
		if !validFeed(feed) {
			return fiber.NewError(fiber.StatusBadRequest, "unknown feed; use forecast, observations or hydro")
		}

		snapshot, err := snapshots.GetLatest(feed)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no data polled yet for feed")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read snapshot")
		}

		return c.JSON(snapshot)
	})

	v1.Get("/readings/:feed/history", func(c *fiber.Ctx) error {
		feed := c.Params("feed")
		if !validFeed(feed) {
			return fiber.NewError(fiber.StatusBadRequest, "unknown feed; use forecast, observations or hydro")
		}

		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := snapshots.GetRange(feed, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no snapshots for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read history")
		}

		return c.JSON(fiber.Map{
			"feed":      feed,
			"from":      req.From,
			"to":        req.To,
			"snapshots": result,
		})
	})

	// Reference collections, served from the client cache.
	v1.Get("/places", func(c *fiber.Ctx) error {
		places, err := client.Places(c.UserContext(), c.QueryBool("force"))
		if err != nil {
			return upstreamError(err)
		}

		var nearest nearestQuery
		if ok, err := nearest.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		} else if ok {
			place, err := discovery.NearestPlace(places, nearest.Latitude, nearest.Longitude)
			if err != nil {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return c.JSON(place)
		}

		return c.JSON(places)
	})

	v1.Get("/stations", func(c *fiber.Ctx) error {
		stations, err := client.Stations(c.UserContext(), c.QueryBool("force"))
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(stations)
	})

	v1.Get("/hydro-stations", func(c *fiber.Ctx) error {
		stations, err := client.HydroStations(c.UserContext(), c.QueryBool("force"))
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(stations)
	})

	// Live passthroughs to the upstream documents.
	v1.Get("/places/:code/forecast", func(c *fiber.Ctx) error {
		doc, err := client.PlaceForecast(c.UserContext(), c.Params("code"))
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(doc)
	})

	v1.Get("/stations/:code/observations", func(c *fiber.Ctx) error {
		doc, err := client.StationObservations(c.UserContext(), c.Params("code"), c.Query("date", "latest"))
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(doc)
	})

	v1.Get("/hydro-stations/:code/observations", func(c *fiber.Ctx) error {
		doc, err := client.HydroObservations(
			c.UserContext(),
			c.Params("code"),
			c.Query("type", "measured"),
			c.Query("date", "latest"),
		)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(doc)
	})

	v1.Post("/cache/clear", func(c *fiber.Ctx) error {
		client.ClearCache()
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func validFeed(feed string) bool {
	switch feed {
	case store.FeedForecast, store.FeedObservations, store.FeedHydro:
		return true
	}
	return false
}

// upstreamError translates the client error taxonomy into HTTP statuses.
func upstreamError(err error) error {
	switch {
	case meteolt.IsNotFound(err):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case meteolt.IsRateLimited(err):
		return fiber.NewError(fiber.StatusTooManyRequests, err.Error())
	case meteolt.IsTimeout(err):
		return fiber.NewError(fiber.StatusGatewayTimeout, err.Error())
	case meteolt.IsConnection(err), meteolt.IsFormat(err), meteolt.IsShape(err):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

// nearestQuery holds the optional coordinate pair on the places endpoint.
type nearestQuery struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
}

// bind reports whether a coordinate pair was supplied.
func (n *nearestQuery) bind(c *fiber.Ctx) (bool, error) {
	latStr := c.Query("latitude")
	lonStr := c.Query("longitude")
	if latStr == "" && lonStr == "" {
		return false, nil
	}
	if latStr == "" || lonStr == "" {
		return false, errors.New("latitude and longitude must be provided together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return false, errors.New("invalid latitude")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return false, errors.New("invalid longitude")
	}

	n.Latitude = lat
	n.Longitude = lon
	if err := validate.Struct(n); err != nil {
		return false, err
	}
	return true, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
