package models

import "strings"

// Category describes one complaint family. The whole per-category surface is
// driven by this table: collection name, the bson field that partitions
// records among restricted admin roles, and the status quirks that differ
// between families.
type Category struct {
	Name       string // path parameter value
	Label      string // display label stamped on API responses
	Collection string
	// ScopeField is the bson field holding the scoping key ("" when the
	// category has no per-key partitioning).
	ScopeField string
	// RoleScoped marks categories whose admins are partitioned by ScopeField;
	// their requests must carry a resolvable scope.
	RoleScoped bool
	// ResolveOnViewed: the academic family stamps resolvedAt when a complaint
	// is marked viewed instead of when it is resolved. Kept per category, not
	// unified.
	ResolveOnViewed bool
}

var categories = map[string]Category{
	"hostel": {
		Name:       "hostel",
		Label:      "Hostel",
		Collection: "hostel_complaints",
		ScopeField: "hostelNumber",
		RoleScoped: true,
	},
	"academic": {
		Name:            "academic",
		Label:           "Academic",
		Collection:      "academic_complaints",
		ResolveOnViewed: true,
	},
	"medical": {
		Name:       "medical",
		Label:      "Medical",
		Collection: "medical_complaints",
	},
	"infrastructure": {
		Name:       "infrastructure",
		Label:      "Infrastructure",
		Collection: "infrastructure_complaints",
		ScopeField: "department",
	},
	"administration": {
		Name:       "administration",
		Label:      "Administration",
		Collection: "administration_complaints",
	},
	"ragging": {
		Name:       "ragging",
		Label:      "Ragging",
		Collection: "ragging_complaints",
	},
}

// CategoryByName resolves a path parameter to its descriptor.
func CategoryByName(name string) (Category, bool) {
	cat, ok := categories[strings.ToLower(strings.TrimSpace(name))]
	return cat, ok
}

// CategoryNames lists every known category, for dashboard rollups.
func CategoryNames() []string {
	return []string{"hostel", "academic", "medical", "infrastructure", "administration", "ragging"}
}
