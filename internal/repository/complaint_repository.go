package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"complaint-portal/internal/models"
)

// Execution-time ceilings. Every store operation on the query and stats
// paths carries one; exceeding it surfaces models.ErrUnavailable, never an
// unbounded hang.
const (
	pageMaxTime   = 8 * time.Second
	lookupMaxTime = 5 * time.Second
	statsMaxTime  = 5 * time.Second
)

type ComplaintRepository struct {
	db *mongo.Database
}

func NewComplaintRepository(db *mongo.Database) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

func (r *ComplaintRepository) collection(cat models.Category) *mongo.Collection {
	return r.db.Collection(cat.Collection)
}

// FindByID looks up one complaint. Malformed ids map to ErrInvalidID so the
// caller can distinguish a bad cursor from a store failure.
func (r *ComplaintRepository) FindByID(ctx context.Context, cat models.Category, id string) (*models.Complaint, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	opts := options.FindOne().SetMaxTime(lookupMaxTime)
	var complaint models.Complaint
	err = r.collection(cat).FindOne(ctx, bson.M{"_id": objID}, opts).Decode(&complaint)
	if err != nil {
		return nil, r.storeError(err)
	}
	return &complaint, nil
}

// Page executes one deterministic page of the keyset query. Sort order is
// (createdAt, _id) ascending; the cursor predicate built by the service layer
// uses the matching $gt comparisons. The two must never diverge.
func (r *ComplaintRepository) Page(ctx context.Context, cat models.Category, query bson.M, limit int64) ([]models.Complaint, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(limit).
		SetMaxTime(pageMaxTime)

	cursor, err := r.collection(cat).Find(ctx, query, opts)
	if err != nil {
		return nil, r.storeError(err)
	}
	defer cursor.Close(ctx)

	var complaints []models.Complaint
	if err = cursor.All(ctx, &complaints); err != nil {
		return nil, r.storeError(err)
	}

	if complaints == nil {
		complaints = []models.Complaint{}
	}
	return complaints, nil
}

// Stats runs the five-counter grouping pipeline, optionally narrowed by a
// $match stage. An empty collection yields the zero value, not an error.
func (r *ComplaintRepository) Stats(ctx context.Context, cat models.Category, match bson.M) (models.Stats, error) {
	pipeline := mongo.Pipeline{}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: statsGroup()}})

	opts := options.Aggregate().SetMaxTime(statsMaxTime)
	cursor, err := r.collection(cat).Aggregate(ctx, pipeline, opts)
	if err != nil {
		return models.Stats{}, r.storeError(err)
	}
	defer cursor.Close(ctx)

	var results []models.Stats
	if err = cursor.All(ctx, &results); err != nil {
		return models.Stats{}, r.storeError(err)
	}
	if len(results) == 0 {
		return models.Stats{}, nil
	}
	return results[0], nil
}

// StatsByHostel groups the hostel collection's counters per hostel number
// for the warden dashboards.
func (r *ComplaintRepository) StatsByHostel(ctx context.Context, match bson.M) ([]models.HostelStats, error) {
	cat, _ := models.CategoryByName("hostel")

	group := statsGroup()
	group["_id"] = "$hostelNumber"

	pipeline := mongo.Pipeline{}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: group}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	)

	opts := options.Aggregate().SetMaxTime(statsMaxTime)
	cursor, err := r.collection(cat).Aggregate(ctx, pipeline, opts)
	if err != nil {
		return nil, r.storeError(err)
	}
	defer cursor.Close(ctx)

	var results []models.HostelStats
	if err = cursor.All(ctx, &results); err != nil {
		return nil, r.storeError(err)
	}
	if results == nil {
		results = []models.HostelStats{}
	}
	return results, nil
}

func statsGroup() bson.M {
	countWhere := func(field, value string) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{field, value}}, 1, 0}}}
	}
	return bson.M{
		"_id":                  nil,
		"totalComplaints":      bson.M{"$sum": 1},
		"resolvedComplaints":   countWhere("$status", models.StatusResolved),
		"unresolvedComplaints": countWhere("$status", models.StatusPending),
		"viewedComplaints":     countWhere("$readStatus", models.ReadStatusViewed),
		"notViewedComplaints":  countWhere("$readStatus", models.ReadStatusNotViewed),
	}
}

// UpdateByID applies a $set to one document and returns the updated copy.
// The update is atomic per document; there is no partial-mutation state a
// concurrent reader could observe.
func (r *ComplaintRepository) UpdateByID(ctx context.Context, cat models.Category, id primitive.ObjectID, set bson.M) (*models.Complaint, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetMaxTime(lookupMaxTime)

	var updated models.Complaint
	err := r.collection(cat).FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, r.storeError(err)
	}
	return &updated, nil
}

func (r *ComplaintRepository) storeError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) || isMaxTimeExpired(err):
		return models.ErrUnavailable
	default:
		return err
	}
}

func isMaxTimeExpired(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.IsMaxTimeMSExpiredError()
}
