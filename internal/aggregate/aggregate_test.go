package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaints/internal/types"
)

func row(complaint, borough string) []string {
	r := make([]string, types.MinColumns)
	r[types.ColCreatedDate] = "2024-01-05"
	r[types.ColComplaintType] = complaint
	r[types.ColBorough] = borough
	return r
}

func table(rows ...[]string) *types.Table {
	return &types.Table{Rows: rows, Width: types.MinColumns}
}

func TestCount(t *testing.T) {
	in := table(
		row("Noise", "MANHATTAN"),
		row("Heat", "BRONX"),
		row("Noise", "MANHATTAN"),
		row("Noise", "BROOKLYN"),
		row("Heat", "BRONX"),
		row("Heat", "BRONX"),
	)

	got := Count(in)

	assert.Equal(t, []types.CountRow{
		{ComplaintType: "Heat", Borough: "BRONX", Count: 3},
		{ComplaintType: "Noise", Borough: "BROOKLYN", Count: 1},
		{ComplaintType: "Noise", Borough: "MANHATTAN", Count: 2},
	}, got)
	assert.Equal(t, in.Len(), Total(got))
}

func TestCountIsCaseAndWhitespaceSensitive(t *testing.T) {
	got := Count(table(
		row("Noise", "MANHATTAN"),
		row("noise", "MANHATTAN"),
		row("Noise ", "MANHATTAN"),
		row("Noise", "Manhattan"),
	))

	require.Len(t, got, 4)
	for _, r := range got {
		assert.Equal(t, 1, r.Count, "%q/%q", r.ComplaintType, r.Borough)
	}
	assert.Equal(t, 4, Total(got))
}

func TestCountEmptyValuesFormGroups(t *testing.T) {
	got := Count(table(row("", ""), row("", ""), row("Noise", "")))

	assert.Equal(t, []types.CountRow{
		{ComplaintType: "", Borough: "", Count: 2},
		{ComplaintType: "Noise", Borough: "", Count: 1},
	}, got)
}

func TestCountEmptyTable(t *testing.T) {
	got := Count(table())
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 0, Total(got))

	assert.Empty(t, Count(nil))
}

func TestCountOrderIsStable(t *testing.T) {
	in := table(
		row("Street Condition", "QUEENS"),
		row("Blocked Driveway", "QUEENS"),
		row("Street Condition", "BRONX"),
		row("Blocked Driveway", "BROOKLYN"),
	)
	first := Count(in)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, Count(in))
	}
	assert.Equal(t, types.CountRow{ComplaintType: "Blocked Driveway", Borough: "BROOKLYN", Count: 1}, first[0])
	assert.Equal(t, types.CountRow{ComplaintType: "Blocked Driveway", Borough: "QUEENS", Count: 1}, first[1])
	assert.Equal(t, types.CountRow{ComplaintType: "Street Condition", Borough: "BRONX", Count: 1}, first[2])
}
