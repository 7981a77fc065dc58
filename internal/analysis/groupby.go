package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/dbsmedya/goreport/internal/dataset"
)

// GroupTable holds per-group means of numeric fields.
type GroupTable struct {
	Key    string
	Fields []string
	Rows   []GroupRow
}

// GroupRow is one group of a GroupTable; Means follows GroupTable.Fields.
type GroupRow struct {
	Key   string
	Means []float64
}

// GroupMeans computes, for each distinct value of key, the mean of every
// field. Groups are sorted by key. Missing values are ignored; a group with
// no values for a field gets NaN.
func GroupMeans(ds *dataset.Dataset, key string, fields []string) (*GroupTable, error) {
	keys, err := ds.Strings(key)
	if err != nil {
		return nil, err
	}

	columns := make([][]float64, len(fields))
	for i, name := range fields {
		values, err := ds.Floats(name)
		if err != nil {
			return nil, err
		}
		columns[i] = values
	}

	seen := make(map[string]bool)
	var groupKeys []string
	for _, k := range keys {
		if k != "" && !seen[k] {
			seen[k] = true
			groupKeys = append(groupKeys, k)
		}
	}
	sort.Strings(groupKeys)

	index := make(map[string]int, len(groupKeys))
	table := &GroupTable{
		Key:    key,
		Fields: append([]string(nil), fields...),
		Rows:   make([]GroupRow, len(groupKeys)),
	}
	for g, k := range groupKeys {
		index[k] = g
		table.Rows[g] = GroupRow{Key: k, Means: make([]float64, len(fields))}
	}

	for f, column := range columns {
		buckets := make([][]float64, len(groupKeys))
		for row, k := range keys {
			if k == "" || math.IsNaN(column[row]) {
				continue
			}
			g := index[k]
			buckets[g] = append(buckets[g], column[row])
		}
		for g, b := range buckets {
			if len(b) == 0 {
				table.Rows[g].Means[f] = math.NaN()
				continue
			}
			table.Rows[g].Means[f] = stat.Mean(b, nil)
		}
	}
	return table, nil
}
