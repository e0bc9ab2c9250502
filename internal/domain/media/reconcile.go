package media

// Reconcile returns the trending items whose id is in neither the owned
// set nor the ignore set, preserving feed order. When the same id appears
// more than once in the merged feed, the first occurrence wins.
func Reconcile(trending []Item, owned, ignored map[int]struct{}) []Item {
	seen := make(map[int]struct{}, len(trending))
	fresh := make([]Item, 0, len(trending))
	for _, item := range trending {
		if _, dup := seen[item.TmdbID]; dup {
			continue
		}
		seen[item.TmdbID] = struct{}{}
		if _, ok := owned[item.TmdbID]; ok {
			continue
		}
		if _, ok := ignored[item.TmdbID]; ok {
			continue
		}
		fresh = append(fresh, item)
	}
	return fresh
}
