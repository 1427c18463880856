package stats

import "sort"

// KeyFunc maps a record to its group. Returning false leaves the record out
// of the aggregation.
type KeyFunc[R any] func(R) (string, bool)

// ValueFunc maps a record to its contribution. Returning false leaves the
// record out.
type ValueFunc[R any] func(R) (float64, bool)

// Aggregate groups records by key and accumulates value. A nil value counts
// each record once; a nil filter keeps every record. Records that the filter
// rejects, or whose key or value cannot be derived, are skipped: dirty rows
// are omitted from a summary, they never abort it.
func Aggregate[R any](records []R, key KeyFunc[R], value ValueFunc[R], filter func(R) bool) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range records {
		if filter != nil && !filter(r) {
			continue
		}
		k, ok := key(r)
		if !ok {
			continue
		}
		v := 1.0
		if value != nil {
			if v, ok = value(r); !ok {
				continue
			}
		}
		out[k] += v
	}
	return out
}

// Count is Aggregate with a count of one per record.
func Count[R any](records []R, key KeyFunc[R], filter func(R) bool) map[string]float64 {
	return Aggregate(records, key, nil, filter)
}

// Sum is Aggregate with an explicit value.
func Sum[R any](records []R, key KeyFunc[R], value ValueFunc[R], filter func(R) bool) map[string]float64 {
	return Aggregate(records, key, value, filter)
}

// Entry is one key/value pair of an aggregation result.
type Entry struct {
	Key   string
	Value float64
}

// ByValueDesc orders entries by value, largest first. Equal values are
// ordered by key so output is deterministic.
func ByValueDesc(m map[string]float64) []Entry {
	es := entries(m)
	sort.Slice(es, func(i, j int) bool {
		if es[i].Value != es[j].Value {
			return es[i].Value > es[j].Value
		}
		return es[i].Key < es[j].Key
	})
	return es
}

// ByKeyAsc orders entries by key.
func ByKeyAsc(m map[string]float64) []Entry {
	es := entries(m)
	sort.Slice(es, func(i, j int) bool {
		return es[i].Key < es[j].Key
	})
	return es
}

func entries(m map[string]float64) []Entry {
	es := make([]Entry, 0, len(m))
	for k, v := range m {
		es = append(es, Entry{Key: k, Value: v})
	}
	return es
}

// InRange reports whether key lies within [start, end] by string comparison.
// An empty bound is open.
func InRange(key, start, end string) bool {
	if start != "" && key < start {
		return false
	}
	if end != "" && key > end {
		return false
	}
	return true
}
