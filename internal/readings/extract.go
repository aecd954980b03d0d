// Package readings turns the untyped documents returned by the meteo.lt
// client into typed reading sets a host platform can map directly onto its
// entity model: the first forecast entry is "current", the last observation
// entry is "latest".
package readings

import (
	"fmt"
	"time"

	"github.com/tomasrudz/meteolt-bridge/internal/meteolt"
)

// Reading is one displayed value.
type Reading struct {
	Metric string `json:"metric"`
	Label  string `json:"label"`
	Value  any    `json:"value"`
	Unit   string `json:"unit,omitempty"`
	Icon   string `json:"icon,omitempty"`
}

// Set is the latest group of readings extracted from one document.
type Set struct {
	Source     string    `json:"source"` // forecast, observations or hydro
	Time       string    `json:"time,omitempty"`
	LastUpdate string    `json:"lastUpdate,omitempty"`
	WaterBody  string    `json:"waterBody,omitempty"`
	Values     []Reading `json:"values"`
}

// FromForecast extracts current conditions from a long-term forecast
// document: the first forecastTimestamps entry.
func FromForecast(doc meteolt.Document) (Set, error) {
	entries, err := doc.ObjectsField("forecastTimestamps")
	if err != nil {
		return Set{}, err
	}
	if len(entries) == 0 {
		return Set{}, fmt.Errorf("forecast document has no timestamps")
	}
	current := entries[0]

	set := Set{
		Source: "forecast",
		Values: collect(current, WeatherMetrics),
	}
	if t, err := current.StringField("forecastTime"); err == nil {
		set.Time = t
	}
	if created, err := doc.StringField("forecastCreationTimeUtc"); err == nil {
		if local, err := meteolt.ToLocalTime(created); err == nil {
			set.LastUpdate = local.Format(time.RFC3339)
		}
	}
	return set, nil
}

// FromObservations extracts the latest entry of a meteorological observation
// document: the last observations element.
func FromObservations(doc meteolt.Document) (Set, error) {
	latest, err := latestObservation(doc)
	if err != nil {
		return Set{}, err
	}

	set := Set{
		Source: "observations",
		Values: collect(latest, WeatherMetrics),
	}
	if t, err := latest.StringField("observationTime"); err == nil {
		set.Time = t
	}
	return set, nil
}

// FromHydro extracts the latest entry of a hydrological observation document.
func FromHydro(doc meteolt.Document) (Set, error) {
	latest, err := latestObservation(doc)
	if err != nil {
		return Set{}, err
	}

	set := Set{
		Source: "hydro",
		Values: collect(latest, HydroMetrics),
	}
	if t, err := latest.StringField("observationTime"); err == nil {
		set.Time = t
	}
	if station, err := doc.ObjectField("station"); err == nil {
		if waterBody, err := station.StringField("waterBody"); err == nil {
			set.WaterBody = waterBody
		}
	}
	return set, nil
}

// collect picks the metrics present in the entry; stations do not publish
// every field, so absent keys are simply skipped.
func collect(entry meteolt.Document, metrics []Metric) []Reading {
	values := make([]Reading, 0, len(metrics))
	for _, m := range metrics {
		raw, ok := entry[m.Key]
		if !ok || raw == nil {
			continue
		}
		if m.Key == "conditionCode" {
			if code, ok := raw.(string); ok {
				raw = ConditionName(code)
			}
		}
		values = append(values, Reading{
			Metric: m.ID,
			Label:  m.Label,
			Value:  raw,
			Unit:   m.Unit,
			Icon:   m.Icon,
		})
	}
	return values
}

func latestObservation(doc meteolt.Document) (meteolt.Document, error) {
	entries, err := doc.ObjectsField("observations")
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("observation document has no entries")
	}
	return entries[len(entries)-1], nil
}
