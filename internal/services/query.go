package services

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"complaint-portal/internal/auth"
	"complaint-portal/internal/models"
)

// BuildQuery composes the normalized filter and the role scope into one
// store predicate. A restricted scope forces the scoping key to its own
// value; any client-supplied override is ignored, not honored.
func BuildQuery(cat models.Category, f models.Filter, scope auth.Scope) bson.M {
	query := bson.M{
		"createdAt": bson.M{"$gte": f.Start, "$lte": f.End},
	}
	if f.ComplaintType != "" {
		query["complainType"] = f.ComplaintType
	}
	if len(f.ScholarNumbers) > 0 {
		query["scholarNumber"] = bson.M{"$in": f.ScholarNumbers}
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.ReadStatus != "" {
		query["readStatus"] = f.ReadStatus
	}
	if cat.ScopeField != "" {
		switch {
		case cat.RoleScoped && !scope.Unrestricted:
			query[cat.ScopeField] = scope.Hostel
		case f.HostelNumber != "":
			query[cat.ScopeField] = f.HostelNumber
		}
	}
	return query
}

// CursorPredicate builds the keyset tie-break for the page after `last`:
// strictly newer rows, or same-timestamp rows with a larger id. Sorting by
// createdAt alone is not enough because timestamps are not unique. The
// comparison direction must match the repository's ascending sort.
func CursorPredicate(last *models.Complaint) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"createdAt": bson.M{"$gt": last.CreatedAt}},
			bson.M{"createdAt": last.CreatedAt, "_id": bson.M{"$gt": last.ID}},
		},
	}
}

// ScopeMatch is the aggregation-side twin of BuildQuery's scope clause: the
// $match narrowing stats to what the scope may see.
func ScopeMatch(cat models.Category, scope auth.Scope) bson.M {
	if cat.RoleScoped && !scope.Unrestricted {
		return bson.M{cat.ScopeField: scope.Hostel}
	}
	return bson.M{}
}

// attachmentRefs rewrites stored attachment paths into fully-qualified
// retrieval URLs. Stored values are bucket-relative keys; legacy records
// hold absolute filesystem paths, detected by the drive-prefix pattern and
// reduced to their basename.
func attachmentRefs(paths []string, scheme, host string) []models.AttachmentRef {
	refs := make([]models.AttachmentRef, 0, len(paths))
	for _, p := range paths {
		refs = append(refs, models.AttachmentRef{
			URL: fmt.Sprintf("%s://%s/%s", scheme, host, normalizeStoredPath(p)),
		})
	}
	return refs
}

func normalizeStoredPath(p string) string {
	if strings.Contains(p, `:\`) || strings.Contains(p, ":/") {
		parts := strings.FieldsFunc(p, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}
	return p
}
