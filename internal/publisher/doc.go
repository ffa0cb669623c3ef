// Package publisher performs one HTTP POST per call against the ThingsBoard
// device-telemetry API ({server}/api/v1/{token}/telemetry, JSON body).
//
// Publish never returns an error: every outcome — 2xx, non-2xx, transport
// failure — is folded into a Result the send loop can account without
// branching on error kinds. Transport failures carry StatusCode 0 and the
// error text; rejections carry the status plus a bounded response snippet.
// There are no retries here; the next scheduled round is the retry.
package publisher
