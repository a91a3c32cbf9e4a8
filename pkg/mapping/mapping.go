// Package mapping provides the in-memory join helpers used by the detail
// aggregators: fetch related rows in one batched query, index them here, and
// join by key lookup. Repositories never issue one query per row.
package mapping

// MapByKey indexes items by the given key function. Later items with the same
// key overwrite earlier ones.
func MapByKey[K comparable, V any](items []V, key func(V) K) map[K]V {
	out := make(map[K]V, len(items))
	for _, item := range items {
		out[key(item)] = item
	}
	return out
}

// GroupByKey buckets items by the given key function, preserving input order
// within each bucket.
func GroupByKey[K comparable, V any](items []V, key func(V) K) map[K][]V {
	out := make(map[K][]V)
	for _, item := range items {
		k := key(item)
		out[k] = append(out[k], item)
	}
	return out
}

// Keys collects the distinct keys of items in first-seen order. Useful for
// building the ID set of a second-round batch fetch.
func Keys[K comparable, V any](items []V, key func(V) K) []K {
	seen := make(map[K]struct{}, len(items))
	out := make([]K, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
