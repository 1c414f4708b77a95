package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"complaint-portal/internal/auth"
	"complaint-portal/internal/models"
	"complaint-portal/internal/services"
)

// stubStore answers every query with a fixed page; enough to exercise the
// HTTP surface without a database.
type stubStore struct {
	page []models.Complaint
}

func (s *stubStore) FindByID(ctx context.Context, cat models.Category, id string) (*models.Complaint, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, models.ErrInvalidID
	}
	return nil, models.ErrNotFound
}

func (s *stubStore) Page(ctx context.Context, cat models.Category, query bson.M, limit int64) ([]models.Complaint, error) {
	return s.page, nil
}

func (s *stubStore) Stats(ctx context.Context, cat models.Category, match bson.M) (models.Stats, error) {
	return models.Stats{TotalComplaints: 3, ResolvedComplaints: 1, UnresolvedComplaints: 2}, nil
}

func (s *stubStore) StatsByHostel(ctx context.Context, match bson.M) ([]models.HostelStats, error) {
	return nil, nil
}

func (s *stubStore) UpdateByID(ctx context.Context, cat models.Category, id primitive.ObjectID, set bson.M) (*models.Complaint, error) {
	return nil, models.ErrNotFound
}

// deadRedis refuses every command, so blacklist checks fail open in tests.
func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "localhost:1", DialTimeout: 50 * time.Millisecond})
}

func testRouter(t *testing.T) (*gin.Engine, *auth.TokenCodec) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec := auth.NewTokenCodec("test-secret", time.Hour)
	svc := services.NewComplaintService(&stubStore{}, services.NopNotifier{})
	h := NewComplaintHandler(svc, nil)

	router := gin.New()
	protected := router.Group("/api/admin", AdminAuth(codec, deadRedis()))
	protected.GET("/complaints/:category", h.GetComplaints)
	protected.GET("/stats/:category", h.GetStats)
	protected.PUT("/status/:category", h.UpdateStatus)
	return router, codec
}

func doRequest(t *testing.T, router *gin.Engine, codec *auth.TokenCodec, role, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		identity, err := codec.IssueIdentity("tester")
		require.NoError(t, err)
		roleToken, err := codec.IssueRole(role)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: "jwt", Value: identity})
		req.AddCookie(&http.Cookie{Name: "role", Value: roleToken})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetComplaints_RequiresAuth(t *testing.T) {
	router, codec := testRouter(t)
	w := doRequest(t, router, codec, "", http.MethodGet, "/api/admin/complaints/hostel")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetComplaints_InvalidCategory(t *testing.T) {
	router, codec := testRouter(t)
	w := doRequest(t, router, codec, "cow", http.MethodGet, "/api/admin/complaints/plumbing")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid Category")
}

func TestGetComplaints_RoleWithoutScope(t *testing.T) {
	router, codec := testRouter(t)
	w := doRequest(t, router, codec, "student", http.MethodGet, "/api/admin/complaints/hostel")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized access")
}

func TestGetComplaints_UnscopedCategoryIgnoresRole(t *testing.T) {
	// Medical has no per-hostel partitioning; any authenticated admin reads it.
	router, codec := testRouter(t)
	w := doRequest(t, router, codec, "student", http.MethodGet, "/api/admin/complaints/medical")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetComplaints_NoStoreHeader(t *testing.T) {
	router, codec := testRouter(t)
	w := doRequest(t, router, codec, "cow", http.MethodGet, "/api/admin/complaints/hostel")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestGetComplaints_BadDateFilter(t *testing.T) {
	router, codec := testRouter(t)
	w := doRequest(t, router, codec, "cow", http.MethodGet,
		"/api/admin/complaints/hostel?filters=%7B%22startDate%22%3A%2201%2F02%2F2025%22%7D")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid date format")
}

func TestGetComplaints_InvalidCursor(t *testing.T) {
	router, codec := testRouter(t)
	w := doRequest(t, router, codec, "cow", http.MethodGet, "/api/admin/complaints/hostel?lastSeenId=zz")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid lastSeenId")
}

func TestGetStats_Success(t *testing.T) {
	router, codec := testRouter(t)
	w := doRequest(t, router, codec, "H3", http.MethodGet, "/api/admin/stats/hostel")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalComplaints":3`)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestUpdateStatus_UnknownComplaint(t *testing.T) {
	router, codec := testRouter(t)
	id := primitive.NewObjectID().Hex()
	req := httptest.NewRequest(http.MethodPut, "/api/admin/status/medical",
		strings.NewReader(`{"id":"`+id+`","status":"resolved"}`))
	req.Header.Set("Content-Type", "application/json")
	identity, _ := codec.IssueIdentity("tester")
	roleToken, _ := codec.IssueRole("cow")
	req.AddCookie(&http.Cookie{Name: "jwt", Value: identity})
	req.AddCookie(&http.Cookie{Name: "role", Value: roleToken})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Complaint not found")
}
