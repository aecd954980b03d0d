package readings

// Metric describes one value the upstream publishes inside a forecast or
// observation entry, together with the presentation hints a host platform
// needs to display it.
type Metric struct {
	ID          string `json:"id"`
	Key         string `json:"-"` // field name inside the API entry
	Label       string `json:"label"`
	Unit        string `json:"unit,omitempty"`
	Icon        string `json:"icon,omitempty"`
	DeviceClass string `json:"deviceClass,omitempty"`
}

// WeatherMetrics are published in forecast and station observation entries.
// Individual stations may omit some of them; absent fields are skipped.
var WeatherMetrics = []Metric{
	{ID: "temperature", Key: "airTemperature", Label: "Temperature", Unit: "°C", Icon: "mdi:thermometer", DeviceClass: "temperature"},
	{ID: "feels_like", Key: "feelsLikeTemperature", Label: "Feels Like Temperature", Unit: "°C", Icon: "mdi:thermometer", DeviceClass: "temperature"},
	{ID: "wind_speed", Key: "windSpeed", Label: "Wind Speed", Unit: "m/s", Icon: "mdi:weather-windy"},
	{ID: "wind_gust", Key: "windGust", Label: "Wind Gust", Unit: "m/s", Icon: "mdi:weather-windy-variant"},
	{ID: "wind_direction", Key: "windDirection", Label: "Wind Direction", Unit: "°", Icon: "mdi:compass"},
	{ID: "cloud_cover", Key: "cloudCover", Label: "Cloud Cover", Unit: "%", Icon: "mdi:weather-cloudy"},
	{ID: "pressure", Key: "seaLevelPressure", Label: "Sea Level Pressure", Unit: "hPa", Icon: "mdi:gauge", DeviceClass: "pressure"},
	{ID: "humidity", Key: "relativeHumidity", Label: "Relative Humidity", Unit: "%", Icon: "mdi:water-percent", DeviceClass: "humidity"},
	{ID: "precipitation", Key: "totalPrecipitation", Label: "Precipitation", Unit: "mm", Icon: "mdi:water"},
	{ID: "condition", Key: "conditionCode", Label: "Condition", Icon: "mdi:weather-partly-cloudy"},
}

// HydroMetrics are published in hydrological observation entries.
var HydroMetrics = []Metric{
	{ID: "water_level", Key: "waterLevel", Label: "Water Level", Unit: "cm", Icon: "mdi:waves-arrow-up"},
	{ID: "water_temperature", Key: "waterTemperature", Label: "Water Temperature", Unit: "°C", Icon: "mdi:thermometer", DeviceClass: "temperature"},
	{ID: "water_discharge", Key: "waterDischarge", Label: "Water Discharge", Unit: "m³/s", Icon: "mdi:waves"},
}

// conditionNames maps upstream condition codes to their Lithuanian names as
// published by LHMT.
var conditionNames = map[string]string{
	"clear":                         "Giedra",
	"partly-cloudy":                 "Mažai debesuota",
	"cloudy-with-sunny-intervals":   "Debesuota su pragiedruliais",
	"cloudy":                        "Debesuota",
	"light-rain":                    "Nedidelis lietus",
	"rain":                          "Lietus",
	"heavy-rain":                    "Smarkus lietus",
	"thunder":                       "Perkūnija",
	"isolated-thunderstorms":        "Trumpas lietus su perkūnija",
	"thunderstorms":                 "Lietus su perkūnija",
	"heavy-rain-with-thunderstorms": "Smarkus lietus su perkūnija",
	"light-sleet":                   "Nedidelė šlapdriba",
	"sleet":                         "Šlapdriba",
	"freezing-rain":                 "Lijundra",
	"hail":                          "Kruša",
	"light-snow":                    "Nedidelis sniegas",
	"snow":                          "Sniegas",
	"heavy-snow":                    "Smarkus sniegas",
	"fog":                           "Rūkas",
	"variable-cloudiness":           "Nepastoviai debesuota",
	"rain-showers":                  "Trumpas lietus",
	"light-rain-at-times":           "Protarpiais nedidelis lietus",
	"rain-at-times":                 "Protarpiais lietus",
	"sleet-showers":                 "Trumpa šlapdriba",
	"sleet-at-times":                "Protarpiais šlapdriba",
	"snow-showers":                  "Trumpas sniegas",
	"light-snow-at-times":           "Protarpiais nedidelis sniegas",
	"snow-at-times":                 "Protarpiais sniegas",
	"snowstorm":                     "Pūga",
	"squall":                        "Škvalas",
}

// ConditionName translates a condition code, falling back to the code itself
// for anything unrecognized.
func ConditionName(code string) string {
	if name, ok := conditionNames[code]; ok {
		return name
	}
	return code
}
