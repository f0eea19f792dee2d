// Package analysis aggregates parsed outbreak records by region.
//
// Every query takes a [domain.RegionTag], filters the dataset with
// [domain.FilterRegion] and computes over the result. An empty selection is a
// normal outcome: counts are zero, percentages are zero and "most common"
// style fields are nil. Invalid region tags, severities and negative windows
// are validation errors.
//
// Time windows are calendar based. A window of n days keeps dated records on
// or after midnight UTC today minus n days; undated records never fall inside
// a window.
package analysis
