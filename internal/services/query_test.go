package services

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"complaint-portal/internal/auth"
	"complaint-portal/internal/models"
)

func mustCategory(t *testing.T, name string) models.Category {
	t.Helper()
	cat, ok := models.CategoryByName(name)
	if !ok {
		t.Fatalf("unknown category %q", name)
	}
	return cat
}

func TestBuildQuery_RestrictedScopeOverridesClientFilter(t *testing.T) {
	cat := mustCategory(t, "hostel")
	f := models.Filter{
		Start:        time.Unix(0, 0).UTC(),
		End:          time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		HostelNumber: "H9",
	}

	query := BuildQuery(cat, f, auth.Scope{Hostel: "H3"})
	if query["hostelNumber"] != "H3" {
		t.Errorf("hostelNumber = %v, want scope's H3", query["hostelNumber"])
	}
}

func TestBuildQuery_UnrestrictedHonorsClientFilter(t *testing.T) {
	cat := mustCategory(t, "hostel")
	f := models.Filter{HostelNumber: "H9"}

	query := BuildQuery(cat, f, auth.Scope{Unrestricted: true})
	if query["hostelNumber"] != "H9" {
		t.Errorf("hostelNumber = %v, want client's H9", query["hostelNumber"])
	}
}

func TestBuildQuery_OptionalClauses(t *testing.T) {
	cat := mustCategory(t, "medical")
	f := models.Filter{
		ComplaintType:  "Hygiene",
		Status:         "Pending",
		ReadStatus:     "Not viewed",
		ScholarNumbers: []string{"1234567890"},
	}

	query := BuildQuery(cat, f, auth.Scope{Unrestricted: true})
	if query["complainType"] != "Hygiene" {
		t.Errorf("complainType = %v", query["complainType"])
	}
	if query["status"] != "Pending" {
		t.Errorf("status = %v", query["status"])
	}
	if query["readStatus"] != "Not viewed" {
		t.Errorf("readStatus = %v", query["readStatus"])
	}
	if !reflect.DeepEqual(query["scholarNumber"], bson.M{"$in": []string{"1234567890"}}) {
		t.Errorf("scholarNumber = %v", query["scholarNumber"])
	}
	if _, ok := query["hostelNumber"]; ok {
		t.Error("medical query should carry no hostelNumber clause")
	}
}

func TestCursorPredicate(t *testing.T) {
	id := primitive.NewObjectID()
	created := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	last := &models.Complaint{ID: id, CreatedAt: created}

	want := bson.M{
		"$or": bson.A{
			bson.M{"createdAt": bson.M{"$gt": created}},
			bson.M{"createdAt": created, "_id": bson.M{"$gt": id}},
		},
	}
	if got := CursorPredicate(last); !reflect.DeepEqual(got, want) {
		t.Errorf("CursorPredicate = %v, want %v", got, want)
	}
}

func TestScopeMatch(t *testing.T) {
	hostel := mustCategory(t, "hostel")
	if got := ScopeMatch(hostel, auth.Scope{Hostel: "H2"}); !reflect.DeepEqual(got, bson.M{"hostelNumber": "H2"}) {
		t.Errorf("restricted match = %v", got)
	}
	if got := ScopeMatch(hostel, auth.Scope{Unrestricted: true}); len(got) != 0 {
		t.Errorf("unrestricted match = %v, want empty", got)
	}

	medical := mustCategory(t, "medical")
	if got := ScopeMatch(medical, auth.Scope{Hostel: "H2"}); len(got) != 0 {
		t.Errorf("unscoped category match = %v, want empty", got)
	}
}

func TestNormalizeStoredPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"uploads/abc123.png", "uploads/abc123.png"},
		{`C:\srv\uploads\abc123.png`, "abc123.png"},
		{"D:/data/uploads/old.pdf", "old.pdf"},
		{"abc123.png", "abc123.png"},
	}
	for _, c := range cases {
		if got := normalizeStoredPath(c.in); got != c.want {
			t.Errorf("normalizeStoredPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAttachmentRefs(t *testing.T) {
	refs := attachmentRefs([]string{"a.png", `C:\old\b.png`}, "https", "portal.example.com")
	want := []models.AttachmentRef{
		{URL: "https://portal.example.com/a.png"},
		{URL: "https://portal.example.com/b.png"},
	}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("attachmentRefs = %v, want %v", refs, want)
	}
}
