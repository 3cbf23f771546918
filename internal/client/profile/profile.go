// Package profile validates, imports, and exports the personal profile
// record. Incoming documents may carry their fields flat, nested under
// "data", or nested under "responses"; decoding resolves the shape once and
// tags the result so downstream code never re-guesses.
package profile

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// RequiredFields is the field set a document must carry, in one shape, to
// be a valid profile.
var RequiredFields = []string{"name", "address", "phone", "email", "dateOfBirth", "gender"}

// Shape identifies where the profile fields were found in the source
// document.
type Shape int

const (
	ShapeFlat Shape = iota
	ShapeData
	ShapeResponses
)

func (s Shape) String() string {
	switch s {
	case ShapeFlat:
		return "flat"
	case ShapeData:
		return "data"
	case ShapeResponses:
		return "responses"
	default:
		return "unknown"
	}
}

// Document is a decoded, validated profile.
type Document struct {
	Shape     Shape
	Fields    map[string]string
	Timestamp time.Time
}

// ValidationError reports the smallest missing-field set among the shapes
// that were checked.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("profile document missing required fields: %v", e.Missing)
}

// Decode parses raw as a profile document, trying the flat shape first,
// then "data", then "responses", and accepting the first one that carries
// every required field. now supplies the fallback timestamp when the
// document has none. On failure the returned error is a *ValidationError
// carrying the minimal missing set found.
func Decode(raw []byte, now func() time.Time) (*Document, error) {
	var top map[string]any
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("parse profile document: %w", err)
	}

	var best []string
	for _, shape := range []Shape{ShapeFlat, ShapeData, ShapeResponses} {
		fields, ok := fieldsForShape(top, shape)
		if !ok {
			continue
		}
		missing := missingFields(fields)
		if len(missing) == 0 {
			return &Document{
				Shape:     shape,
				Fields:    fields,
				Timestamp: resolveTimestamp(top, now),
			}, nil
		}
		if best == nil || len(missing) < len(best) {
			best = missing
		}
	}

	if best == nil {
		best = append([]string(nil), RequiredFields...)
	}
	return nil, &ValidationError{Missing: best}
}

// fieldsForShape extracts the scalar fields carried by the given shape.
func fieldsForShape(top map[string]any, shape Shape) (map[string]string, bool) {
	var src map[string]any
	switch shape {
	case ShapeFlat:
		src = top
	case ShapeData:
		nested, ok := top["data"].(map[string]any)
		if !ok {
			return nil, false
		}
		src = nested
	case ShapeResponses:
		nested, ok := top["responses"].(map[string]any)
		if !ok {
			return nil, false
		}
		src = nested
	default:
		return nil, false
	}

	fields := map[string]string{}
	for k, v := range src {
		if k == "timestamp" {
			continue
		}
		if s, ok := scalarString(v); ok {
			fields[k] = s
		}
	}
	return fields, true
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func missingFields(fields map[string]string) []string {
	var missing []string
	for _, f := range RequiredFields {
		if fields[f] == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// resolveTimestamp prefers a timestamp nested under "data" over a top-level
// one. When neither parses, now() is used.
func resolveTimestamp(top map[string]any, now func() time.Time) time.Time {
	if nested, ok := top["data"].(map[string]any); ok {
		if ts, ok := parseInstant(nested["timestamp"]); ok {
			return ts
		}
	}
	if ts, ok := parseInstant(top["timestamp"]); ok {
		return ts
	}
	return now()
}

func parseInstant(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Encode renders the document in the canonical stored form: fields and
// timestamp nested under "data".
func (d *Document) Encode() ([]byte, error) {
	data := map[string]string{}
	for k, v := range d.Fields {
		data[k] = v
	}
	data["timestamp"] = d.Timestamp.Format(time.RFC3339)
	return json.Marshal(map[string]any{"data": data})
}

// FieldNames returns the document's field names sorted for stable display.
func (d *Document) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for k := range d.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
