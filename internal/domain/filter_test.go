package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []OutbreakRecord {
	p := DefaultParser()
	headlines := []string{
		"Ebola outbreak in Kampala",
		"Malaria is Spreading in Johannesburg",
		"Tuberculosis cases rise in Nairobi",
		"Cholera outbreak in Dakar",
		"Rabies alert in Entebbe",
		"Influenza season in Europe",
	}
	out := make([]OutbreakRecord, len(headlines))
	for i, h := range headlines {
		out[i] = p.ParseRaw(RawHeadline{Line: i + 1, Text: h})
	}
	return out
}

func headlinesOf(records []OutbreakRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Headline
	}
	return out
}

func TestFilterRegion(t *testing.T) {
	records := testRecords()

	all, err := FilterRegion(records, RegionAll)
	require.NoError(t, err)
	assert.Equal(t, records, all)

	east, err := FilterRegion(records, RegionEastAfrica)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Ebola outbreak in Kampala",
		"Tuberculosis cases rise in Nairobi",
		"Rabies alert in Entebbe",
	}, headlinesOf(east))

	uganda, err := FilterRegion(records, RegionUganda)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Ebola outbreak in Kampala",
		"Rabies alert in Entebbe",
	}, headlinesOf(uganda))
}

func TestFilterRegion_Idempotent(t *testing.T) {
	records := testRecords()
	for _, region := range RegionTags {
		once, err := FilterRegion(records, region)
		require.NoError(t, err)
		twice, err := FilterRegion(once, region)
		require.NoError(t, err)
		assert.Equal(t, once, twice, region)
	}
}

func TestFilterRegion_UgandaSubsetOfEastAfrica(t *testing.T) {
	records := testRecords()
	east, _ := FilterRegion(records, RegionEastAfrica)
	uganda, _ := FilterRegion(records, RegionUganda)

	for _, u := range uganda {
		assert.Contains(t, east, u)
	}
}

func TestFilterRegion_DoesNotAlias(t *testing.T) {
	records := testRecords()
	all, err := FilterRegion(records, RegionAll)
	require.NoError(t, err)

	all[0].Disease = "changed"
	assert.Equal(t, "Ebola", records[0].Disease)
}

func TestFilterRegion_Empty(t *testing.T) {
	out, err := FilterRegion(nil, RegionUganda)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFilterRegion_InvalidTag(t *testing.T) {
	_, err := FilterRegion(testRecords(), RegionTag("WestAfrica"))
	require.ErrorIs(t, err, ErrInvalidRegion)
}

func TestParseRegionTag(t *testing.T) {
	tests := []struct {
		in       string
		expected RegionTag
	}{
		{"All", RegionAll},
		{"all", RegionAll},
		{"EastAfrica", RegionEastAfrica},
		{"east_africa", RegionEastAfrica},
		{"East Africa", RegionEastAfrica},
		{"east-africa", RegionEastAfrica},
		{"UGANDA", RegionUganda},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRegionTag(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseRegionTag("Kenya")
	require.ErrorIs(t, err, ErrInvalidRegion)
}
