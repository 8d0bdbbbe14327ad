// Package export provides shipment record exporters.
//
// Two formats are supported:
//
//   - JSON: an array of shipment records, with optional pretty-printing
//   - CSV: a flattened schema with one column per phase progress entry
//     and compliance issues joined into a single cell
//
// Both exporters offer a streaming variant that consumes records from a
// channel, for exporting large collections without buffering them.
package export
