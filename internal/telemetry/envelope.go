package telemetry

import (
	"encoding/json"
	"errors"
	"maps"
	"time"

	"github.com/tbpush/tbpush/internal/payload"
)

// timeLayout is the human-readable send_time format ThingsBoard dashboards
// display alongside the millisecond ts.
const timeLayout = "2006-01-02 15:04:05"

// envelope is the ThingsBoard timeseries upload format: an explicit
// millisecond timestamp plus the key-value telemetry map.
type envelope struct {
	TS     int64          `json:"ts"`
	Values map[string]any `json:"values"`
	Time   string         `json:"time"`
}

// Envelope wraps the document in the ThingsBoard timeseries format. The
// top-level object fields become the telemetry values, a "send_time" field is
// added, and ts carries now in Unix milliseconds.
//
// If the document carries a random key, any nested object holding a numeric
// field of that name gets the field re-rolled for this round. The document
// itself is never modified; a fresh values map is built per call.
//
// now is passed explicitly so callers (and tests) control the clock.
func Envelope(doc *payload.Document, now time.Time) ([]byte, error) {
	obj, ok := doc.Value().(map[string]any)
	if !ok {
		return nil, errors.New("telemetry: envelope requires a JSON object payload")
	}

	values := make(map[string]any, len(obj)+1)
	for k, v := range obj {
		values[k] = rerollField(v, doc.RandomKey())
	}

	sendTime := now.Format(timeLayout)
	values["send_time"] = sendTime

	return json.Marshal(envelope{
		TS:     now.UnixMilli(),
		Values: values,
		Time:   sendTime,
	})
}

// rerollField returns v with the named field re-rolled when v is a nested
// object containing it, and v unchanged otherwise.
func rerollField(v any, key string) any {
	if key == "" {
		return v
	}
	nested, ok := v.(map[string]any)
	if !ok {
		return v
	}
	orig, ok := nested[key]
	if !ok {
		return v
	}
	clone := maps.Clone(nested)
	clone[key] = reroll(orig)
	return clone
}
