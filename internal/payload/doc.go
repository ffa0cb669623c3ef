// Package payload loads the JSON document that gets pushed every round.
//
// Load(path) reads the whole file, parses it, and re-serializes it once into
// the canonical wire bytes reused for every round. Read failures and parse
// failures are distinct typed errors (NotFoundError vs SyntaxError) so the
// CLI can report them separately; both abort the run before any network
// activity.
//
// Two file shapes are accepted: a plain JSON document of any shape, sent
// as-is, or the wrapped form {"random_key": "field", "data": ...} where the
// named numeric field is re-rolled on every round by the telemetry package.
//
// Watch(ctx, path, onChange) uses fsnotify to hot-reload the file during
// long soak runs, handling the rename→create pattern used by atomic-save
// editors by re-adding the watch after each reload.
package payload
