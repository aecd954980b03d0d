package meteolt

import "fmt"

// Document is a decoded API response object. Forecast and observation
// responses are deliberately kept untyped: the upstream adds metric fields
// over time and the set differs per station, so consumers pick the fields
// they understand through the typed accessors below.
type Document map[string]any

// StringField extracts a string value by key.
func (d Document) StringField(key string) (string, error) {
	v, ok := d[key]
	if !ok {
		return "", newAPIError(ErrCodeShape, fmt.Sprintf("missing field %q", key), nil)
	}
	s, ok := v.(string)
	if !ok {
		return "", newAPIError(ErrCodeShape, fmt.Sprintf("field %q is %T, not a string", key, v), nil)
	}
	return s, nil
}

// NumberField extracts a numeric value by key. JSON numbers decode as
// float64, which is what every metric field in the API carries.
func (d Document) NumberField(key string) (float64, error) {
	v, ok := d[key]
	if !ok {
		return 0, newAPIError(ErrCodeShape, fmt.Sprintf("missing field %q", key), nil)
	}
	n, ok := v.(float64)
	if !ok {
		return 0, newAPIError(ErrCodeShape, fmt.Sprintf("field %q is %T, not a number", key, v), nil)
	}
	return n, nil
}

// ObjectField extracts a nested object by key.
func (d Document) ObjectField(key string) (Document, error) {
	v, ok := d[key]
	if !ok {
		return nil, newAPIError(ErrCodeShape, fmt.Sprintf("missing field %q", key), nil)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, newAPIError(ErrCodeShape, fmt.Sprintf("field %q is %T, not an object", key, v), nil)
	}
	return Document(obj), nil
}

// ObjectsField extracts an array of objects by key.
func (d Document) ObjectsField(key string) ([]Document, error) {
	v, ok := d[key]
	if !ok {
		return nil, newAPIError(ErrCodeShape, fmt.Sprintf("missing field %q", key), nil)
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, newAPIError(ErrCodeShape, fmt.Sprintf("field %q is %T, not an array", key, v), nil)
	}
	docs := make([]Document, 0, len(arr))
	for i, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, newAPIError(ErrCodeShape, fmt.Sprintf("field %q[%d] is %T, not an object", key, i, item), nil)
		}
		docs = append(docs, Document(obj))
	}
	return docs, nil
}
