package dedup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/samber/lo"

	"github.com/MikeSquared-Agency/nexus/internal/talent"
)

// Result summarises one duplicate scan over the talent pool.
type Result struct {
	Execute    bool            `json:"execute"`
	TotalItems int             `json:"total_items"`
	Clusters   int             `json:"clusters"`
	Deduped    int             `json:"deduped"`
	Survivors  int             `json:"survivors"`
	Details    []ClusterDetail `json:"details,omitempty"`
}

// ClusterDetail is one group of entries that describe the same candidate.
// Indices refer to the pool as it was before any removal.
type ClusterDetail struct {
	Survivor int      `json:"survivor"`
	Deduped  []int    `json:"deduped"`
	Size     int      `json:"size"`
	Name     string   `json:"name"`
	Reasons  []string `json:"reasons"`
}

// errNothingToDrop aborts a rewrite that would leave the pool as it is.
var errNothingToDrop = errors.New("no duplicates to drop")

// Deduplicator finds, and optionally removes, repeated candidates.
type Deduplicator struct {
	repo   talent.Repository
	logger *slog.Logger
}

func New(repo talent.Repository, logger *slog.Logger) *Deduplicator {
	return &Deduplicator{repo: repo, logger: logger}
}

// Scan groups the pool into duplicate clusters. With execute set every
// non-survivor is dropped in one Rewrite, so confirmations racing the scan
// are either seen by it or land after it.
func (d *Deduplicator) Scan(ctx context.Context, execute bool) (*Result, error) {
	var result *Result
	if execute {
		err := d.repo.Rewrite(ctx, func(recs []*talent.Record) ([]*talent.Record, error) {
			var drop map[int]bool
			result, drop = d.plan(recs)
			if len(drop) == 0 {
				return nil, errNothingToDrop
			}
			return lo.Reject(recs, func(_ *talent.Record, i int) bool { return drop[i] }), nil
		})
		if err != nil && !errors.Is(err, errNothingToDrop) {
			return nil, fmt.Errorf("remove duplicates: %w", err)
		}
	} else {
		recs, err := d.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list talents: %w", err)
		}
		result, _ = d.plan(recs)
	}
	result.Execute = execute

	d.logger.Info("deduplication completed",
		"clusters", result.Clusters,
		"deduped", result.Deduped,
		"execute", execute,
	)
	return result, nil
}

// plan clusters recs and returns the indices that are not survivors.
func (d *Deduplicator) plan(recs []*talent.Record) (*Result, map[int]bool) {
	pairs := FindPairs(recs)
	d.logger.Info("found duplicate pairs", "count", len(pairs), "talents", len(recs))

	result := &Result{TotalItems: len(recs)}
	drop := make(map[int]bool)
	if len(pairs) == 0 {
		return result, drop
	}

	clusters := clusterPairs(pairs)
	result.Clusters = len(clusters)

	for _, cluster := range clusters {
		keep := survivor(cluster)
		deduped := lo.Without(cluster, keep)
		for _, idx := range deduped {
			drop[idx] = true
		}

		members := lo.SliceToMap(cluster, func(i int) (int, bool) { return i, true })
		reasons := lo.Uniq(lo.FilterMap(pairs, func(p DuplicatePair, _ int) (string, bool) {
			return p.Reason, members[p.I] && members[p.J]
		}))

		result.Details = append(result.Details, ClusterDetail{
			Survivor: keep,
			Deduped:  deduped,
			Size:     len(cluster),
			Name:     recs[keep].Name(),
			Reasons:  reasons,
		})
	}
	result.Survivors = len(clusters)
	result.Deduped = len(drop)
	return result, drop
}

// clusterPairs groups duplicate pairs into connected components using
// union-find. Clusters and their members come back in ascending order.
func clusterPairs(pairs []DuplicatePair) [][]int {
	if len(pairs) == 0 {
		return nil
	}

	parent := make(map[int]int)
	for _, pair := range pairs {
		if _, ok := parent[pair.I]; !ok {
			parent[pair.I] = pair.I
		}
		if _, ok := parent[pair.J]; !ok {
			parent[pair.J] = pair.J
		}
	}

	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	for _, pair := range pairs {
		r1, r2 := find(pair.I), find(pair.J)
		if r1 != r2 {
			parent[r2] = r1
		}
	}

	groups := make(map[int][]int)
	for i := range parent {
		root := find(i)
		groups[root] = append(groups[root], i)
	}

	var clusters [][]int
	for _, members := range groups {
		if len(members) > 1 {
			sort.Ints(members)
			clusters = append(clusters, members)
		}
	}
	sort.Slice(clusters, func(a, b int) bool { return clusters[a][0] < clusters[b][0] })
	return clusters
}
