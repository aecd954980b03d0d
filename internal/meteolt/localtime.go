package meteolt

import (
	"fmt"
	"time"
	// Embed the timezone database so Europe/Vilnius resolves even on
	// machines and containers without tzdata installed.
	_ "time/tzdata"
)

// API timestamps come as "YYYY-MM-DD HH:MM:SS", always UTC, no offset marker.
const apiTimeLayout = "2006-01-02 15:04:05"

// Timezone is the zone all API timestamps are presented in to consumers.
const Timezone = "Europe/Vilnius"

var localZone = mustLoadLocation(Timezone)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("meteolt: load location %s: %v", name, err))
	}
	return loc
}

// ToLocalTime parses an API timestamp string as UTC and converts it to the
// Europe/Vilnius zone. It fails with a format error when the input does not
// match the fixed "YYYY-MM-DD HH:MM:SS" pattern.
func ToLocalTime(timestamp string) (time.Time, error) {
	utc, err := time.ParseInLocation(apiTimeLayout, timestamp, time.UTC)
	if err != nil {
		return time.Time{}, newAPIError(ErrCodeFormat, fmt.Sprintf("invalid timestamp %q", timestamp), err)
	}
	return utc.In(localZone), nil
}

// localTimeString is ToLocalTime serialized in an offset-qualified textual
// form, e.g. "2024-12-22T14:00:00+02:00".
func localTimeString(timestamp string) (string, error) {
	local, err := ToLocalTime(timestamp)
	if err != nil {
		return "", err
	}
	return local.Format(time.RFC3339), nil
}
