// Package source defines the record-supply contract for handing a fixed
// collection to store construction sites, plus small implementations for
// in-memory slices and JSON payloads.
//
// Responsibilities:
//   - Source[T] only loads the full record collection once, synchronously.
//   - Build loads a source and constructs a facets.Store over the result.
//   - The core facets package stays supply-agnostic; callers own all I/O and
//     hand payloads in as bytes.
//
// Data flow:
//
//	Source -> Build -> facets.New(items, cfg, ...) -> *facets.Store[T]
//
// Nothing here persists or reloads filter state: records are fixed at
// construction and selections live only inside the store.
package source
