package domain

import (
	"fmt"
	"sort"
)

// Gazetteer maps East African countries to their city aliases. It is
// read-only after construction and safe for concurrent use.
type Gazetteer struct {
	countries   map[string][]string
	cityCountry map[string]string
	designated  string
	matcher     *phraseMatcher
	cityMatch   map[string]*phraseMatcher
	conflicts   []string
}

// NewGazetteer builds a gazetteer from country -> city aliases. designated
// names the country whose matches set IsUganda.
//
// A city alias listed under more than one country is kept under the
// lexicographically first country; the rejected listings are reported by
// Conflicts.
func NewGazetteer(countries map[string][]string, designated string) *Gazetteer {
	names := make([]string, 0, len(countries))
	for country := range countries {
		names = append(names, country)
	}
	sort.Strings(names)

	g := &Gazetteer{
		countries:   make(map[string][]string, len(countries)),
		cityCountry: make(map[string]string),
		cityMatch:   make(map[string]*phraseMatcher, len(countries)),
		designated:  designated,
	}

	places := make([]string, 0, len(names))
	for _, country := range names {
		places = append(places, country)
		cities := append([]string(nil), countries[country]...)
		sort.Strings(cities)

		kept := make([]string, 0, len(cities))
		for _, city := range cities {
			if owner, dup := g.cityCountry[city]; dup {
				if owner != country {
					g.conflicts = append(g.conflicts,
						fmt.Sprintf("city %q listed under %q and %q; keeping %q", city, owner, country, owner))
				}
				continue
			}
			g.cityCountry[city] = country
			kept = append(kept, city)
			places = append(places, city)
		}
		g.countries[country] = kept
		g.cityMatch[country] = newPhraseMatcher(kept, false)
	}

	g.matcher = newPhraseMatcher(places, false)
	return g
}

var defaultGazetteer = NewGazetteer(map[string][]string{
	"Uganda":      {"Kampala", "Entebbe", "Gulu", "Mbarara"},
	"Kenya":       {"Nairobi", "Mombasa", "Kisumu"},
	"Tanzania":    {"Dar es Salaam", "Arusha", "Zanzibar"},
	"Rwanda":      {"Kigali", "Butare"},
	"Burundi":     {"Bujumbura", "Gitega"},
	"South Sudan": {"Juba", "Malakal"},
	"Ethiopia":    {"Addis Ababa", "Dire Dawa"},
	"Somalia":     {"Mogadishu", "Hargeisa"},
}, "Uganda")

// DefaultGazetteer returns the process-wide East Africa gazetteer.
func DefaultGazetteer() *Gazetteer {
	return defaultGazetteer
}

// Resolve finds the single winning place named in text and derives the
// East Africa and Uganda flags from it. A city match also sets its country.
// When a country wins, its own cities are searched in the same order so
// "Gulu, Uganda" keeps the city.
func (g *Gazetteer) Resolve(text string) Location {
	name, ok := g.matcher.first(text)
	if !ok {
		return Location{}
	}

	var loc Location
	if country, isCity := g.cityCountry[name]; isCity {
		city := name
		loc.City = &city
		loc.Country = &country
	} else {
		country := name
		loc.Country = &country
		if city, ok := g.cityMatch[country].first(text); ok {
			loc.City = &city
		}
	}
	loc.IsEastAfrica = g.Contains(*loc.Country)
	loc.IsUganda = loc.IsEastAfrica && *loc.Country == g.designated
	return loc
}

// Contains reports whether country is in the gazetteer.
func (g *Gazetteer) Contains(country string) bool {
	_, ok := g.countries[country]
	return ok
}

// CountryOf returns the country a city alias belongs to.
func (g *Gazetteer) CountryOf(city string) (string, bool) {
	country, ok := g.cityCountry[city]
	return country, ok
}

// Countries returns the country names sorted.
func (g *Gazetteer) Countries() []string {
	out := make([]string, 0, len(g.countries))
	for c := range g.countries {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Cities returns the aliases kept for country, sorted.
func (g *Gazetteer) Cities(country string) []string {
	return append([]string(nil), g.countries[country]...)
}

// Places returns every country and city alias.
func (g *Gazetteer) Places() []string {
	return g.matcher.ordered()
}

// Designated returns the designated sub-region country.
func (g *Gazetteer) Designated() string {
	return g.designated
}

// Conflicts describes city aliases dropped because another country already
// listed them.
func (g *Gazetteer) Conflicts() []string {
	return append([]string(nil), g.conflicts...)
}
