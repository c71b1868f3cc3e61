package dedup

import "github.com/samber/lo"

// survivor picks the entry a cluster collapses into. Entries are appended in
// confirmation order, so the highest index is the newest profile.
func survivor(cluster []int) int {
	return lo.Max(cluster)
}
