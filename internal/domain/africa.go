package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/biter777/countries"
)

const (
	// maxNameWords bounds the word runs tried as country names.
	maxNameWords = 4
	// minNameLetters keeps ISO codes such as "SO" or "MAR" from matching
	// ordinary words.
	minNameLetters = 4
)

// africanAliases are short forms countries.ByName does not know.
var africanAliases = []string{"DRC", "DR Congo"}

// africanCities are major cities outside the gazetteer that still mark a
// headline as African.
var africanCities = []string{
	"Abidjan", "Abuja", "Accra", "Addis", "Alexandria", "Algiers", "Antananarivo",
	"Bamako", "Blantyre", "Brazzaville", "Bulawayo", "Cairo", "Cape Town",
	"Casablanca", "Conakry", "Dakar", "Douala", "Durban", "Freetown", "Goma",
	"Harare", "Ibadan", "Johannesburg", "Kano", "Khartoum", "Kinshasa", "Kumasi",
	"Lagos", "Lilongwe", "Luanda", "Lubumbashi", "Lusaka", "Maputo", "Monrovia",
	"Niamey", "Ouagadougou", "Port Harcourt", "Pretoria", "Rabat", "Tripoli",
	"Tunis", "Windhoek", "Yaounde",
}

// newAfricaMatcher builds the whole-word fallback used when the gazetteer
// finds nothing: African country names, major cities, the gazetteer's own
// places, a few short forms and the words "Africa"/"African".
func newAfricaMatcher(g *Gazetteer) *phraseMatcher {
	names := []string{"Africa", "African"}
	for _, c := range countries.All() {
		if c.Region() != countries.RegionAF {
			continue
		}
		if name := c.String(); name != "" && !strings.EqualFold(name, "unknown") {
			names = append(names, name)
		}
	}
	names = append(names, africanAliases...)
	names = append(names, africanCities...)
	names = append(names, g.Places()...)
	return newPhraseMatcher(names, true)
}

// namesAfricanCountry reports whether a run of words in text is an African
// country under any name countries.ByName accepts, such as "Libya",
// "Eswatini" or "Ivory Coast".
func namesAfricanCountry(text string) bool {
	words := strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) })
	for i := range words {
		var candidate string
		for n := 0; n < maxNameWords && i+n < len(words); n++ {
			candidate += words[i+n]
			if utf8.RuneCountInString(candidate) < minNameLetters {
				continue
			}
			if countries.ByName(candidate).Region() == countries.RegionAF {
				return true
			}
		}
	}
	return false
}
