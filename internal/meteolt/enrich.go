package meteolt

// Field names recognized by the enricher. The upstream delivers all
// timestamps in UTC without an offset marker; the enricher adds a sibling
// field carrying the same instant in the local zone, RFC3339-formatted.
const (
	fieldForecastTimestamps = "forecastTimestamps"
	fieldForecastTimeUTC    = "forecastTimeUtc"
	fieldForecastTimeLocal  = "forecastTime"

	fieldObservations       = "observations"
	fieldObservationTimeUTC = "observationTimeUtc"
	fieldObservationTime    = "observationTime"
)

// enrichLocalTimes injects local-time sibling fields into the two known
// timestamped sequences of a decoded document. Only the top-level
// "forecastTimestamps" and "observations" fields are considered; nothing is
// walked recursively and no other field is touched. Elements without the
// trigger field are skipped. The document is mutated in place and returned.
func enrichLocalTimes(doc Document) (Document, error) {
	if err := enrichSequence(doc, fieldForecastTimestamps, fieldForecastTimeUTC, fieldForecastTimeLocal); err != nil {
		return nil, err
	}
	if err := enrichSequence(doc, fieldObservations, fieldObservationTimeUTC, fieldObservationTime); err != nil {
		return nil, err
	}
	return doc, nil
}

func enrichSequence(doc Document, seqField, utcField, localField string) error {
	raw, ok := doc[seqField]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		// Present but not a sequence; leave it for the consumer to reject.
		return nil
	}
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		utc, ok := obj[utcField].(string)
		if !ok {
			continue
		}
		local, err := localTimeString(utc)
		if err != nil {
			return err
		}
		obj[localField] = local
	}
	return nil
}
