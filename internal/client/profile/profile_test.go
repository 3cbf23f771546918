package profile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
}

func validFields() map[string]any {
	return map[string]any{
		"name":        "A",
		"address":     "B",
		"phone":       "123",
		"email":       "a@example.com",
		"dateOfBirth": "1980-01-01",
		"gender":      "other",
	}
}

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestDecode_AcceptsAllThreeShapes(t *testing.T) {
	tests := []struct {
		name  string
		doc   map[string]any
		shape Shape
	}{
		{"flat", validFields(), ShapeFlat},
		{"under data", map[string]any{"data": validFields()}, ShapeData},
		{"under responses", map[string]any{"responses": validFields()}, ShapeResponses},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(marshal(t, tt.doc), fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, doc.Shape)
			assert.Equal(t, "A", doc.Fields["name"])
		})
	}
}

func TestDecode_ReportsMinimalMissingSet(t *testing.T) {
	// flat shape misses everything, data shape misses only gender
	fields := validFields()
	delete(fields, "gender")
	raw := marshal(t, map[string]any{"data": fields})

	_, err := Decode(raw, fixedNow)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"gender"}, verr.Missing)
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode([]byte("{oops"), fixedNow)
	assert.Error(t, err)
}

func TestDecode_TimestampPrefersData(t *testing.T) {
	doc := map[string]any{
		"timestamp": "2026-01-01T00:00:00Z",
		"data":      validFields(),
	}
	doc["data"].(map[string]any)["timestamp"] = "2026-02-02T00:00:00Z"

	got, err := Decode(marshal(t, doc), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), got.Timestamp)
}

func TestDecode_TimestampTopLevelFallback(t *testing.T) {
	doc := map[string]any{
		"timestamp": "2026-01-01T00:00:00Z",
		"data":      validFields(),
	}
	got, err := Decode(marshal(t, doc), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), got.Timestamp)
}

func TestDecode_TimestampDefaultsToNow(t *testing.T) {
	got, err := Decode(marshal(t, validFields()), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, fixedNow(), got.Timestamp)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	original, err := Decode(marshal(t, validFields()), fixedNow)
	require.NoError(t, err)

	raw, err := original.Encode()
	require.NoError(t, err)

	reimported, err := Decode(raw, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, ShapeData, reimported.Shape)
	assert.Equal(t, original.Fields, reimported.Fields)
	assert.Equal(t, original.Timestamp, reimported.Timestamp)
}

func TestFieldNames_Sorted(t *testing.T) {
	doc, err := Decode(marshal(t, validFields()), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"address", "dateOfBirth", "email", "gender", "name", "phone"}, doc.FieldNames())
}
