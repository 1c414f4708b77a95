package models

// Stats holds the five aggregate counters for one category. Computed on
// demand, never persisted.
type Stats struct {
	TotalComplaints      int64 `bson:"totalComplaints" json:"totalComplaints"`
	ResolvedComplaints   int64 `bson:"resolvedComplaints" json:"resolvedComplaints"`
	UnresolvedComplaints int64 `bson:"unresolvedComplaints" json:"unresolvedComplaints"`
	ViewedComplaints     int64 `bson:"viewedComplaints" json:"viewedComplaints"`
	NotViewedComplaints  int64 `bson:"notViewedComplaints" json:"notViewedComplaints"`
}

// HostelStats is one row of the per-hostel rollup shown on the warden and
// chief-warden dashboards.
type HostelStats struct {
	HostelNumber string `bson:"_id" json:"hostelNumber"`
	Stats        `bson:",inline"`
}
