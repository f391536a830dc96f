// Package aggregate counts complaint rows per (complaint type, borough) pair.
package aggregate

import (
	"sort"

	"github.com/samber/lo"

	"complaints/internal/types"
)

// Count groups the rows of table by their exact complaint type and borough
// values and returns one row per group, ordered by complaint type and then
// borough. Keys are not trimmed or case folded.
func Count(table *types.Table) []types.CountRow {
	if table.Len() == 0 {
		return []types.CountRow{}
	}

	counts := make(map[types.Key]int)
	for _, row := range table.Rows {
		counts[types.Key{
			ComplaintType: row[types.ColComplaintType],
			Borough:       row[types.ColBorough],
		}]++
	}

	keys := lo.Keys(counts)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ComplaintType != keys[j].ComplaintType {
			return keys[i].ComplaintType < keys[j].ComplaintType
		}
		return keys[i].Borough < keys[j].Borough
	})

	return lo.Map(keys, func(k types.Key, _ int) types.CountRow {
		return types.CountRow{ComplaintType: k.ComplaintType, Borough: k.Borough, Count: counts[k]}
	})
}

// Total returns the number of rows the counts were built from.
func Total(rows []types.CountRow) int {
	return lo.SumBy(rows, func(r types.CountRow) int { return r.Count })
}
