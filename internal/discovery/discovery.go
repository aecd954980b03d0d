// Package discovery resolves which place a deployment should track when the
// operator does not know the meteo.lt place code: either from explicit home
// coordinates or from a city name geocoded through the Google Geocoding API.
package discovery

import (
	"errors"
	"math"

	"github.com/kelvins/geocoder"

	"github.com/tomasrudz/meteolt-bridge/internal/meteolt"
)

// ErrNoPlaces is returned when the places list to search is empty.
var ErrNoPlaces = errors.New("no places to choose from")

const earthRadiusKm = 6371

// NearestPlace returns the place whose coordinates are closest to the given
// point, by great-circle distance.
func NearestPlace(places []meteolt.Place, latitude, longitude float64) (meteolt.Place, error) {
	if len(places) == 0 {
		return meteolt.Place{}, ErrNoPlaces
	}

	best := places[0]
	bestDist := haversineKm(latitude, longitude, best.Coordinates.Latitude, best.Coordinates.Longitude)
	for _, place := range places[1:] {
		d := haversineKm(latitude, longitude, place.Coordinates.Latitude, place.Coordinates.Longitude)
		if d < bestDist {
			best = place
			bestDist = d
		}
	}
	return best, nil
}

// ResolveCity geocodes a city name into coordinates. The Google Geocoding
// API key is required.
func ResolveCity(apiKey, city, country string) (latitude, longitude float64, err error) {
	if apiKey == "" {
		return 0, 0, errors.New("geocoder API key not configured")
	}
	geocoder.ApiKey = apiKey

	location, err := geocoder.Geocoding(geocoder.Address{
		City:    city,
		Country: country,
	})
	if err != nil {
		return 0, 0, err
	}
	return location.Latitude, location.Longitude, nil
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
