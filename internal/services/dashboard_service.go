package services

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"complaint-portal/internal/auth"
	"complaint-portal/internal/models"
)

// Snapshot is one dashboard analytics frame: per-category counters keyed by
// category name. Recomputed on every tick, never cached.
type Snapshot map[string]models.Stats

// Resolution is the top-line summary pushed alongside each snapshot.
type Resolution struct {
	TotalComplaints      int64   `json:"totalComplaints"`
	ResolvedComplaints   int64   `json:"resolvedComplaints"`
	UnresolvedComplaints int64   `json:"unresolvedComplaints"`
	ResolutionRate       float64 `json:"resolutionRate"`
}

// Resolution folds the snapshot into its top-line summary.
func (s Snapshot) Resolution() Resolution {
	var res Resolution
	for _, stats := range s {
		res.TotalComplaints += stats.TotalComplaints
		res.ResolvedComplaints += stats.ResolvedComplaints
		res.UnresolvedComplaints += stats.UnresolvedComplaints
	}
	if res.TotalComplaints > 0 {
		res.ResolutionRate = float64(res.ResolvedComplaints) / float64(res.TotalComplaints) * 100
	}
	return res
}

// DashboardService computes the aggregate frames the realtime channel
// pushes. It holds no state of its own; every call hits the store fresh.
type DashboardService struct {
	complaints *ComplaintService
	store      ComplaintStore
}

func NewDashboardService(complaints *ComplaintService, store ComplaintStore) *DashboardService {
	return &DashboardService{complaints: complaints, store: store}
}

// Snapshot gathers every category's counters concurrently. Each category is
// best-effort on its own; one failing aggregation zeroes that entry only.
func (s *DashboardService) Snapshot(ctx context.Context, scope auth.Scope) Snapshot {
	snapshot := make(Snapshot, len(models.CategoryNames()))

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, name := range models.CategoryNames() {
		cat, _ := models.CategoryByName(name)
		wg.Add(1)
		go func(cat models.Category) {
			defer wg.Done()
			stats := s.complaints.Stats(ctx, cat, scope)
			mu.Lock()
			snapshot[cat.Name] = stats
			mu.Unlock()
		}(cat)
	}
	wg.Wait()

	return snapshot
}

// CategoryStats answers one on-demand per-category request.
func (s *DashboardService) CategoryStats(ctx context.Context, category string, scope auth.Scope) (models.Stats, error) {
	cat, ok := models.CategoryByName(category)
	if !ok {
		return models.Stats{}, models.ErrBadCategory
	}
	return s.complaints.Stats(ctx, cat, scope), nil
}

// HostelBreakdown is the per-hostel rollup. An unrestricted scope sees every
// hostel; a warden sees exactly their own row.
func (s *DashboardService) HostelBreakdown(ctx context.Context, scope auth.Scope) ([]models.HostelStats, error) {
	match := bson.M{}
	if !scope.Unrestricted {
		match["hostelNumber"] = scope.Hostel
	}
	return s.store.StatsByHostel(ctx, match)
}
