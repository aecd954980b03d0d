package meteolt

// Coordinates locate a place or station in WGS84 degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place is a named locality for which a long-term forecast is available.
type Place struct {
	Code                   string      `json:"code"`
	Name                   string      `json:"name"`
	AdministrativeDivision string      `json:"administrativeDivision,omitempty"`
	CountryCode            string      `json:"countryCode"`
	Coordinates            Coordinates `json:"coordinates"`
}

// Station is a fixed meteorological monitoring point.
type Station struct {
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

// HydroStation is a fixed hydrological monitoring point on a water body.
type HydroStation struct {
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	WaterBody   string      `json:"waterBody"`
	Coordinates Coordinates `json:"coordinates"`
}
