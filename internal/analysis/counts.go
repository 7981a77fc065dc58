package analysis

import (
	"sort"

	"github.com/elliotchance/orderedmap/v2"
)

// Count is the number of rows holding one category value.
type Count struct {
	Key string
	N   int
}

// CountBy counts rows per distinct value in order of first appearance.
// Empty values are missing and not counted.
func CountBy(values []string) []Count {
	counts := orderedmap.NewOrderedMap[string, int]()
	for _, v := range values {
		if v == "" {
			continue
		}
		n, _ := counts.Get(v)
		counts.Set(v, n+1)
	}

	out := make([]Count, 0, counts.Len())
	for el := counts.Front(); el != nil; el = el.Next() {
		out = append(out, Count{Key: el.Key, N: el.Value})
	}
	return out
}

// SortByCount returns counts ordered by N descending. Equal counts keep
// their input order.
func SortByCount(counts []Count) []Count {
	out := append([]Count(nil), counts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].N > out[j].N
	})
	return out
}

// Total returns the sum of all counts.
func Total(counts []Count) int {
	total := 0
	for _, c := range counts {
		total += c.N
	}
	return total
}

// groupValues collects values per key in first-appearance order, skipping
// missing keys.
func groupValues(keys []string, values []float64) *orderedmap.OrderedMap[string, []float64] {
	groups := orderedmap.NewOrderedMap[string, []float64]()
	for i, k := range keys {
		if k == "" {
			continue
		}
		g, _ := groups.Get(k)
		groups.Set(k, append(g, values[i]))
	}
	return groups
}
