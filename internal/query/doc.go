// Package query implements the small path language used to pull a single
// value out of the JSON printed by environment tools such as
// `ddev describe --json-output` or `lando info --format json`.
//
// A query is one or more stages separated by `|`. Each stage walks the
// document with field names (`raw.dbinfo.host`), zero-based or negative
// indexes (`[0]`, `[-1]`), projections (`[]`, `[*]`) and slices (`[1:3]`).
// A projection applies the rest of its stage to every element and collects
// the results; a pipe ends the projection so that the next stage can pick
// from the collected sequence:
//
//	[].internal_connection.host | [0]
//
// Nothing richer is supported on purpose: no comparisons, no filters, no
// functions. Documents are represented as cty values.
package query
