// Package manifest loads and validates the lecture manifest that declares
// what a curriculum contains.
//
// The manifest is a CSV file mapping lecture keys to module/day/order
// positions, titles, speakers and transcript source files. Validation is
// all-or-nothing: a single violation blocks the entire ingestion run, and a
// failed validation reports every violation rather than just the first.
package manifest
