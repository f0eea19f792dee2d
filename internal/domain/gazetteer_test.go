package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGazetteer_Default(t *testing.T) {
	g := DefaultGazetteer()

	assert.Equal(t, []string{
		"Burundi", "Ethiopia", "Kenya", "Rwanda", "Somalia", "South Sudan", "Tanzania", "Uganda",
	}, g.Countries())
	assert.Equal(t, []string{"Entebbe", "Gulu", "Kampala", "Mbarara"}, g.Cities("Uganda"))
	assert.Equal(t, "Uganda", g.Designated())
	assert.Empty(t, g.Conflicts())

	country, ok := g.CountryOf("Arusha")
	assert.True(t, ok)
	assert.Equal(t, "Tanzania", country)

	_, ok = g.CountryOf("Lagos")
	assert.False(t, ok)
}

func TestGazetteer_Resolve(t *testing.T) {
	g := DefaultGazetteer()

	tests := []struct {
		name       string
		text       string
		country    string
		city       string
		eastAfrica bool
		uganda     bool
	}{
		{"city sets country", "cases in Mombasa", "Kenya", "Mombasa", true, false},
		{"country only", "alert across Rwanda", "Rwanda", "", true, false},
		{"uganda city", "rabies in mbarara", "Uganda", "Mbarara", true, true},
		{"case insensitive", "CHOLERA IN JUBA", "South Sudan", "Juba", true, false},
		{"longest wins", "South Sudan and Kenya", "South Sudan", "", true, false},
		{"city longer than country", "Addis Ababa hospital, Kenya border", "Ethiopia", "Addis Ababa", true, false},
		{"equal length lexicographic", "Kampala and Nairobi", "Uganda", "Kampala", true, true},
		{"country keeps its city", "Cholera in Gulu, Uganda", "Uganda", "Gulu", true, true},
		{"two-word country keeps its city", "Cholera in Juba, South Sudan", "South Sudan", "Juba", true, false},
		{"possessive country", "Measles in Tanzania's Arusha region", "Tanzania", "Arusha", true, false},
		{"other country's city ignored", "Kenya and Gulu", "Kenya", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := g.Resolve(tt.text)

			require.NotNil(t, loc.Country)
			assert.Equal(t, tt.country, *loc.Country)
			if tt.city == "" {
				assert.Nil(t, loc.City)
			} else {
				require.NotNil(t, loc.City)
				assert.Equal(t, tt.city, *loc.City)
			}
			assert.Equal(t, tt.eastAfrica, loc.IsEastAfrica)
			assert.Equal(t, tt.uganda, loc.IsUganda)
		})
	}
}

func TestGazetteer_Resolve_NoMatch(t *testing.T) {
	loc := DefaultGazetteer().Resolve("Cholera outbreak in Dakar")
	assert.Equal(t, Location{}, loc)
}

func TestGazetteer_AliasConflict(t *testing.T) {
	g := NewGazetteer(map[string][]string{
		"Zambia": {"Border Town", "Lusaka"},
		"Malawi": {"Border Town", "Lilongwe"},
	}, "Malawi")

	country, ok := g.CountryOf("Border Town")
	require.True(t, ok)
	assert.Equal(t, "Malawi", country)
	assert.Equal(t, []string{"Border Town", "Lilongwe"}, g.Cities("Malawi"))
	assert.Equal(t, []string{"Lusaka"}, g.Cities("Zambia"))
	require.Len(t, g.Conflicts(), 1)
	assert.Contains(t, g.Conflicts()[0], "Border Town")

	loc := g.Resolve("flooding near border town")
	assert.True(t, loc.IsUganda, "designated country flag follows the kept owner")
}

func TestGazetteer_DuplicateCityWithinCountry(t *testing.T) {
	g := NewGazetteer(map[string][]string{"Kenya": {"Nairobi", "Nairobi"}}, "Kenya")

	assert.Equal(t, []string{"Nairobi"}, g.Cities("Kenya"))
	assert.Empty(t, g.Conflicts())
}

func TestGazetteer_PlacesMatchOrder(t *testing.T) {
	places := DefaultGazetteer().Places()

	require.NotEmpty(t, places)
	assert.Equal(t, "Dar es Salaam", places[0])
	assert.Contains(t, places, "Uganda")
	assert.Contains(t, places, "Kampala")
}
