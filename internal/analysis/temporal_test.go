package analysis_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/outbreak-etl/internal/analysis"
	"github.com/couchcryptid/outbreak-etl/internal/domain"
)

func TestTemporalPatterns_All(t *testing.T) {
	a := newTestAnalyzer(t)

	tp, err := a.TemporalPatterns(domain.RegionAll, analysis.TemporalQuery{})
	require.NoError(t, err)

	want := []analysis.TemporalPoint{
		{Date: date(2024, time.March, 1), Count: 1, Cumulative: 1},
		{Date: date(2024, time.April, 10), Count: 1, Cumulative: 2},
		{Date: date(2024, time.April, 20), Count: 2, Cumulative: 4},
		{Date: date(2024, time.April, 22), Count: 1, Cumulative: 5},
		{Date: date(2024, time.April, 24), Count: 1, Cumulative: 6},
		{Date: date(2024, time.April, 25), Count: 1, Cumulative: 7},
		{Date: date(2024, time.April, 26), Count: 1, Cumulative: 8},
	}
	if diff := cmp.Diff(want, tp.Points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 8, tp.Total)
	assert.Equal(t, 2, tp.Undated)
}

func TestTemporalPatterns_CumulativeInvariant(t *testing.T) {
	a := newTestAnalyzer(t)

	for _, region := range domain.RegionTags {
		for _, q := range []analysis.TemporalQuery{
			{},
			{ByDisease: true},
			{Disease: "Malaria"},
			{WindowDays: analysis.Days(7)},
			{Disease: "Ebola", WindowDays: analysis.Days(30), ByDisease: true},
		} {
			tp, err := a.TemporalPatterns(region, q)
			require.NoError(t, err)

			prev := 0
			for i, p := range tp.Points {
				assert.GreaterOrEqual(t, p.Cumulative, prev)
				if i > 0 {
					assert.True(t, p.Date.After(tp.Points[i-1].Date))
				}
				prev = p.Cumulative
			}
			assert.Equal(t, tp.Total, prev, "region %s query %+v", region, q)
		}
	}
}

func TestTemporalPatterns_DiseaseFilter(t *testing.T) {
	a := newTestAnalyzer(t)

	tp, err := a.TemporalPatterns(domain.RegionAll, analysis.TemporalQuery{Disease: "Malaria"})
	require.NoError(t, err)

	require.Len(t, tp.Points, 2)
	assert.Equal(t, date(2024, time.April, 25), tp.Points[0].Date)
	assert.Equal(t, date(2024, time.April, 26), tp.Points[1].Date)
	assert.Equal(t, 2, tp.Total)
	assert.Equal(t, 1, tp.Undated)

	tp, err = a.TemporalPatterns(domain.RegionAll, analysis.TemporalQuery{Disease: "malaria"})
	require.NoError(t, err)
	assert.Empty(t, tp.Points, "disease filter is an exact name match")
}

func TestTemporalPatterns_ByDisease(t *testing.T) {
	a := newTestAnalyzer(t)

	tp, err := a.TemporalPatterns(domain.RegionUganda, analysis.TemporalQuery{ByDisease: true})
	require.NoError(t, err)

	require.Len(t, tp.Points, 3)
	assert.Equal(t, map[string]int{"Rabies": 1}, tp.Points[0].Diseases)
	assert.Equal(t, map[string]int{"Ebola": 2}, tp.Points[1].Diseases)
	assert.Equal(t, map[string]int{"Influenza": 1}, tp.Points[2].Diseases)
	assert.Equal(t, 4, tp.Total)
}

func TestTemporalPatterns_Window(t *testing.T) {
	a := newTestAnalyzer(t)

	tp, err := a.TemporalPatterns(domain.RegionAll, analysis.TemporalQuery{WindowDays: analysis.Days(2)})
	require.NoError(t, err)

	require.Len(t, tp.Points, 3)
	assert.Equal(t, date(2024, time.April, 24), tp.Points[0].Date)
	assert.Equal(t, 3, tp.Total)
	assert.Nil(t, tp.Points[0].Diseases)

	_, err = a.TemporalPatterns(domain.RegionAll, analysis.TemporalQuery{WindowDays: analysis.Days(-3)})
	require.ErrorIs(t, err, analysis.ErrInvalidWindow)
}

func TestTemporalPatterns_Empty(t *testing.T) {
	a := analysis.New(nil, nil)

	tp, err := a.TemporalPatterns(domain.RegionAll, analysis.TemporalQuery{})
	require.NoError(t, err)
	assert.Empty(t, tp.Points)
	assert.Zero(t, tp.Total)
}
