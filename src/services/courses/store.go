package courses

import (
	"context"
	"time"

	"learnhub-backend/src/database"
	"learnhub-backend/src/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists courses.
type Store interface {
	Insert(ctx context.Context, c *models.Course) error
	// FindByID returns nil, nil when no course has id.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	FindDetail(ctx context.Context, id primitive.ObjectID) (*models.CourseDetail, error)
	FindPage(ctx context.Context, f Filter, p models.PaginationParams) ([]models.CourseSummary, int64, error)
	FindAll(ctx context.Context, f Filter, sort bson.D) ([]models.CourseSummary, error)
	// UpdateFields applies set and returns the updated course, or nil when missing.
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Course, error)
	// AddStudent appends user to a published course it is not yet enrolled
	// in. It reports false when no such course matched.
	AddStudent(ctx context.Context, id, user primitive.ObjectID, at time.Time) (bool, error)
	// UpsertRating replaces or appends r for an enrolled r.User and refreshes
	// the aggregates in the same write. It reports false when no such course matched.
	UpsertRating(ctx context.Context, id primitive.ObjectID, r models.Rating) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type MongoStore struct {
	courses *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{courses: db.Collection(database.CoursesCollection)}
}

func (s *MongoStore) Insert(ctx context.Context, c *models.Course) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if _, err := s.courses.InsertOne(ctx, c); err != nil {
		return errors.Wrap(err, "insert course")
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.Course
	if err := s.courses.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find course")
	}
	return &c, nil
}

func (s *MongoStore) FindDetail(ctx context.Context, id primitive.ObjectID) (*models.CourseDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := s.courses.Aggregate(ctx, detailPipeline(id))
	if err != nil {
		return nil, errors.Wrap(err, "aggregate course detail")
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return nil, errors.Wrap(cur.Err(), "read course detail")
	}
	var d models.CourseDetail
	if err := cur.Decode(&d); err != nil {
		return nil, errors.Wrap(err, "decode course detail")
	}
	return &d, nil
}

func (s *MongoStore) FindPage(ctx context.Context, f Filter, p models.PaginationParams) ([]models.CourseSummary, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := f.BSON()
	total, err := s.courses.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count courses")
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: p.GetSortOrder()}},
		{{Key: "$skip", Value: p.GetSkip()}},
		{{Key: "$limit", Value: int64(p.Limit)}},
	}
	pipeline = append(pipeline, summaryStages()...)

	out, err := s.aggregateSummaries(ctx, pipeline)
	return out, total, err
}

func (s *MongoStore) FindAll(ctx context.Context, f Filter, sort bson.D) ([]models.CourseSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: f.BSON()}},
		{{Key: "$sort", Value: sort}},
	}
	return s.aggregateSummaries(ctx, append(pipeline, summaryStages()...))
}

func (s *MongoStore) aggregateSummaries(ctx context.Context, pipeline mongo.Pipeline) ([]models.CourseSummary, error) {
	cur, err := s.courses.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "aggregate courses")
	}
	out := []models.CourseSummary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode courses")
	}
	return out, nil
}

func (s *MongoStore) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Course
	err := s.courses.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "update course")
	}
	return &c, nil
}

func (s *MongoStore) AddStudent(ctx context.Context, id, user primitive.ObjectID, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.courses.UpdateOne(ctx,
		bson.M{"_id": id, "isPublished": true, "enrolledStudents": bson.M{"$ne": user}},
		bson.M{
			"$push": bson.M{"enrolledStudents": user},
			"$set":  bson.M{"updatedAt": at},
		},
	)
	if err != nil {
		return false, errors.Wrap(err, "enroll student")
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoStore) UpsertRating(ctx context.Context, id primitive.ObjectID, r models.Rating) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.courses.UpdateOne(ctx,
		bson.M{"_id": id, "enrolledStudents": r.User},
		upsertRatingPipeline(r),
	)
	if err != nil {
		return false, errors.Wrap(err, "save rating")
	}
	return res.MatchedCount > 0, nil
}

// upsertRatingPipeline swaps r in for the user's previous rating, or appends
// it, then recomputes averageRating and ratingCount.
func upsertRatingPipeline(r models.Rating) mongo.Pipeline {
	entry := bson.M{"$literal": r}
	ratings := bson.M{"$ifNull": bson.A{"$ratings", bson.A{}}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"ratings": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{r.User, bson.M{"$ifNull": bson.A{"$ratings.user", bson.A{}}}}},
				bson.M{"$map": bson.M{
					"input": ratings,
					"as":    "r",
					"in":    bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$$r.user", r.User}}, entry, "$$r"}},
				}},
				bson.M{"$concatArrays": bson.A{ratings, bson.A{entry}}},
			}},
			"updatedAt": r.Date,
		}}},
		models.RatingAggregatesStage(),
	}
}

func (s *MongoStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.courses.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, errors.Wrap(err, "delete course")
	}
	return res.DeletedCount > 0, nil
}

func firstOf(field string) bson.M {
	return bson.M{"$arrayElemAt": bson.A{"$" + field, 0}}
}

func lookup(from, local, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from":         from,
		"localField":   local,
		"foreignField": "_id",
		"as":           as,
	}}}
}

// summaryStages populate mentor and category and drop the heavy arrays.
func summaryStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{
			"enrolledCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$enrolledStudents", bson.A{}}}},
		}}},
		lookup(database.UsersCollection, "mentor", "mentor"),
		lookup(database.CategoriesCollection, "category", "category"),
		{{Key: "$addFields", Value: bson.M{
			"mentor":   firstOf("mentor"),
			"category": firstOf("category"),
		}}},
		{{Key: "$project", Value: bson.M{"content": 0, "enrolledStudents": 0, "ratings": 0}}},
	}
}

func detailPipeline(id primitive.ObjectID) mongo.Pipeline {
	ratingUser := bson.M{"$arrayElemAt": bson.A{
		bson.M{"$filter": bson.M{
			"input": "$ratingUsers",
			"as":    "u",
			"cond":  bson.M{"$eq": bson.A{"$$u._id", "$$r.user"}},
		}},
		0,
	}}
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$addFields", Value: bson.M{
			"enrolledCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$enrolledStudents", bson.A{}}}},
		}}},
		lookup(database.UsersCollection, "mentor", "mentor"),
		lookup(database.CategoriesCollection, "category", "category"),
		lookup(database.UsersCollection, "enrolledStudents", "enrolledStudents"),
		lookup(database.UsersCollection, "ratings.user", "ratingUsers"),
		{{Key: "$addFields", Value: bson.M{
			"mentor":   firstOf("mentor"),
			"category": firstOf("category"),
			"ratings": bson.M{"$map": bson.M{
				"input": bson.M{"$ifNull": bson.A{"$ratings", bson.A{}}},
				"as":    "r",
				"in":    bson.M{"$mergeObjects": bson.A{"$$r", bson.M{"user": ratingUser}}},
			}},
		}}},
		{{Key: "$project", Value: bson.M{"ratingUsers": 0}}},
	}
}
