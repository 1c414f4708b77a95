package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending  = "Pending"
	StatusResolved = "Resolved"

	ReadStatusNotViewed = "Not viewed"
	ReadStatusViewed    = "Viewed"
)

// Complaint is the shared document shape across every category collection.
// Category-specific fields (room, hostelNumber, department, stream, year) are
// optional and only populated for the families that carry them.
type Complaint struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ScholarNumber       string             `bson:"scholarNumber" json:"scholarNumber"`
	StudentName         string             `bson:"studentName" json:"studentName"`
	UserEmail           string             `bson:"useremail,omitempty" json:"useremail,omitempty"`
	ComplainType        string             `bson:"complainType,omitempty" json:"complainType,omitempty"`
	ComplainDescription string             `bson:"complainDescription" json:"complainDescription"`
	Status              string             `bson:"status" json:"status"`
	ReadStatus          string             `bson:"readStatus" json:"readStatus"`
	Room                string             `bson:"room,omitempty" json:"room,omitempty"`
	HostelNumber        string             `bson:"hostelNumber,omitempty" json:"hostelNumber,omitempty"`
	Department          string             `bson:"department,omitempty" json:"department,omitempty"`
	Stream              string             `bson:"stream,omitempty" json:"stream,omitempty"`
	Year                string             `bson:"year,omitempty" json:"year,omitempty"`
	Attachments         []string           `bson:"attachments,omitempty" json:"-"`
	AdminRemarks        string             `bson:"AdminRemarks,omitempty" json:"AdminRemarks,omitempty"`
	AdminAttachments    []string           `bson:"AdminAttachments,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	ResolvedAt          *time.Time         `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}

// ScopeKey returns the value of the scoping field for the given category.
func (c *Complaint) ScopeKey(cat Category) string {
	switch cat.ScopeField {
	case "hostelNumber":
		return c.HostelNumber
	case "department":
		return c.Department
	default:
		return ""
	}
}

// AttachmentRef is the client-facing form of a stored attachment path.
type AttachmentRef struct {
	URL string `json:"url"`
}

// ComplaintView is a Complaint with attachment paths rewritten into
// fully-qualified retrieval URLs and the category label stamped on.
type ComplaintView struct {
	Complaint
	Attachments      []AttachmentRef `json:"attachments"`
	AdminAttachments []AttachmentRef `json:"AdminAttachments"`
	Category         string          `json:"category"`
}
