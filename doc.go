// Package typestream binds Go values to JSON-shaped event streams:
//
// - Composable bindings for slices, pointers, maps, objects, and scalars (Slice/Ptr/Map/Object/Auto)
// - A stable error model via Issues (JSON Pointer, code, message)
// - One handler per container element, reused across the whole stream
// - Pluggable sources (encoding/json, go-json, yaml, hujson) feeding the same handlers
// - Write replay of bound values into any event sink, including the jsonw JSON writer
//
// Design policy:
// - Keep only public APIs in the root package; token plumbing lives under internal/.
// - Place sources under source/, the writer under jsonw/, and the CLI under cmd/typestream.
// - Handlers distinguish their own position from their element's by a single depth counter.
//
// Typical usage:
//
//	b := typestream.Slice(typestream.Int())
//	v, err := typestream.ParseBytes(ctx, b, data)
//
//	out, err := typestream.Marshal(b, &v)
package typestream
