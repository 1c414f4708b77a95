package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"complaint-portal/internal/auth"
	"complaint-portal/internal/models"
)

// ComplaintStore is the repository surface the service depends on.
type ComplaintStore interface {
	FindByID(ctx context.Context, cat models.Category, id string) (*models.Complaint, error)
	Page(ctx context.Context, cat models.Category, query bson.M, limit int64) ([]models.Complaint, error)
	Stats(ctx context.Context, cat models.Category, match bson.M) (models.Stats, error)
	StatsByHostel(ctx context.Context, match bson.M) ([]models.HostelStats, error)
	UpdateByID(ctx context.Context, cat models.Category, id primitive.ObjectID, set bson.M) (*models.Complaint, error)
}

type ComplaintService struct {
	store    ComplaintStore
	notifier ActivityNotifier
}

func NewComplaintService(store ComplaintStore, notifier ActivityNotifier) *ComplaintService {
	return &ComplaintService{store: store, notifier: notifier}
}

// PageRequest carries the raw query parameters of one list request plus the
// request origin used to build attachment URLs.
type PageRequest struct {
	RawFilters string
	Limit      string
	LastSeenID string
	Scheme     string
	Host       string
}

type PageResult struct {
	Complaints     []models.ComplaintView `json:"complaints"`
	NextLastSeenID *string                `json:"nextLastSeenId"`
}

// Page returns one deterministic page of complaints for the given scope.
func (s *ComplaintService) Page(ctx context.Context, cat models.Category, scope auth.Scope, req PageRequest) (*PageResult, error) {
	filter, err := models.ParseFilter(req.RawFilters, time.Now())
	if err != nil {
		return nil, err
	}
	limit := models.ParseLimit(req.Limit)

	query := BuildQuery(cat, filter, scope)

	if req.LastSeenID != "" {
		last, err := s.store.FindByID(ctx, cat, req.LastSeenID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidID) {
				return nil, models.ErrInvalidCursor
			}
			return nil, err
		}
		query["$or"] = CursorPredicate(last)["$or"]
	}

	complaints, err := s.store.Page(ctx, cat, query, limit)
	if err != nil {
		return nil, err
	}

	views := make([]models.ComplaintView, 0, len(complaints))
	for _, c := range complaints {
		views = append(views, models.ComplaintView{
			Complaint:        c,
			Attachments:      attachmentRefs(c.Attachments, req.Scheme, req.Host),
			AdminAttachments: attachmentRefs(c.AdminAttachments, req.Scheme, req.Host),
			Category:         cat.Label,
		})
	}

	// A page that exactly exhausts the limit costs one extra round-trip; the
	// follow-up page comes back empty with a nil cursor.
	var next *string
	if int64(len(complaints)) == limit {
		id := complaints[len(complaints)-1].ID.Hex()
		next = &id
	}

	return &PageResult{Complaints: views, NextLastSeenID: next}, nil
}

// Stats computes the five counters for a scope. Best-effort: any store
// failure is logged and answered with zeros, never propagated. A stale or
// zero reading beats taking down the analytics view.
func (s *ComplaintService) Stats(ctx context.Context, cat models.Category, scope auth.Scope) models.Stats {
	stats, err := s.store.Stats(ctx, cat, ScopeMatch(cat, scope))
	if err != nil {
		log.Printf("[WARN] stats aggregation for %s failed: %v", cat.Name, err)
		return models.Stats{}
	}
	return stats
}

// UpdateStatus marks a complaint resolved or viewed. The target must exist
// and sit inside the caller's scope before any mutation happens.
//
// Re-resolving an already-resolved complaint succeeds and refreshes
// resolvedAt with a fresh timestamp.
func (s *ComplaintService) UpdateStatus(ctx context.Context, cat models.Category, scope auth.Scope, id, status string) (*models.Complaint, error) {
	activity := strings.ToLower(strings.TrimSpace(status))
	if activity != "resolved" && activity != "viewed" {
		return nil, models.ErrBadStatus
	}

	existing, err := s.authorizedTarget(ctx, cat, scope, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	switch activity {
	case "resolved":
		set["status"] = models.StatusResolved
		if !cat.ResolveOnViewed {
			set["resolvedAt"] = time.Now()
		}
	case "viewed":
		set["readStatus"] = models.ReadStatusViewed
		if cat.ResolveOnViewed {
			set["resolvedAt"] = time.Now()
		}
	}

	updated, err := s.store.UpdateByID(ctx, cat, existing.ID, set)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.ComplaintActivity(ctx, cat.Name, id, activity); err != nil {
		log.Printf("[WARN] activity notification for %s complaint %s failed: %v", cat.Name, id, err)
	}
	return updated, nil
}

// UpdateRemarks replaces the admin remark text and attachment list.
func (s *ComplaintService) UpdateRemarks(ctx context.Context, cat models.Category, scope auth.Scope, id, remarks string, attachments []string) (*models.Complaint, error) {
	existing, err := s.authorizedTarget(ctx, cat, scope, id)
	if err != nil {
		return nil, err
	}

	if attachments == nil {
		attachments = []string{}
	}
	set := bson.M{
		"AdminRemarks":     remarks,
		"AdminAttachments": attachments,
	}
	return s.store.UpdateByID(ctx, cat, existing.ID, set)
}

// authorizedTarget resolves a write target and checks it against the scope.
// Malformed ids read as unknown targets here: a write to an id that cannot
// exist is a 404, not a cursor problem.
func (s *ComplaintService) authorizedTarget(ctx context.Context, cat models.Category, scope auth.Scope, id string) (*models.Complaint, error) {
	existing, err := s.store.FindByID(ctx, cat, id)
	if err != nil {
		if errors.Is(err, models.ErrInvalidID) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	if cat.RoleScoped && !scope.Allows(existing.ScopeKey(cat)) {
		return nil, models.ErrForbidden
	}
	return existing, nil
}
