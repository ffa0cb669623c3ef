// Package telemetry derives the ThingsBoard timeseries envelope from a
// loaded payload document: {"ts": <unix ms>, "values": {...}, "time": "..."},
// with a "send_time" value added and, when the wrapped payload format named a
// random key, that numeric field re-rolled per round. The loaded document is
// never mutated; every call builds a fresh body.
//
// Envelope mode is opt-in — the default wire body is the raw re-serialized
// document.
package telemetry
