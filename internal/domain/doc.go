// Package domain models disease-outbreak news headlines and their structured form.
//
// # Input Format
//
// One headline per line, optionally prefixed by a calendar date token:
//
//	"2024-03-14: Ebola outbreak in Kampala claims more lives"
//	"Cholera cases rise in Mombasa"
//
// The date token must be the first thing on the (trimmed) line and must be a
// valid calendar date in YYYY-MM-DD form followed by a colon. Anything else
// leaves the record undated. Undated records are never stamped with the current
// time: they count towards totals and distributions but are excluded from every
// date range, time window and temporal series.
//
// # Matching
//
// Disease names and place names are found by case-insensitive substring search.
// When several catalog entries occur in the same headline the longest one wins,
// then the lexicographically smallest, so "South Sudan" beats "Sudan" and the
// outcome never depends on map iteration order. See [phraseMatcher].
//
// # Region Classification
//
// The [Gazetteer] holds the East Africa country set and each country's city
// aliases, with Uganda as the designated sub-region. A single gazetteer match
// produces the record's [Location]; the record's [Region] flags are copied from
// that same match so the two can never disagree:
//
//	IsUganda => IsEastAfrica => IsAfrica
//
// IsAfrica is also set, without a gazetteer match, when the headline names any
// other African country or a major African city (whole-word match).
//
// # Severity Scoring
//
// Each headline gets an additive integer score:
//
//	disease priority:  high 2 | medium 1 | low, unknown 0
//	keywords:          outbreak, epidemic, death, fatal, emergency, claims lives, surge  +2
//	                   otherwise spread, cases, infected, confirmed, rise, increase, alert  +1
//
// and the score maps to a tier: >= 3 High, >= 1 Medium, else Low.
//
// # Coordinates
//
// Coordinates come from an optional [GeoResolver]. A failed, slow or empty
// lookup leaves Latitude/Longitude nil; it never fails the parse.
package domain
