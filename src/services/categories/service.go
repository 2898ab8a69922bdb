package categories

import (
	"context"
	"time"

	"learnhub-backend/src/models"
	"learnhub-backend/src/utils"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const existsTTL = 10 * time.Minute

func existsKey(id primitive.ObjectID) string {
	return "categories:exists:" + id.Hex()
}

type Service struct {
	col   *mongo.Collection
	cache *utils.Cache
	log   *zap.Logger
}

func NewService(col *mongo.Collection, cache *utils.Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{col: col, cache: cache, log: log}
}

// ValidateCategoryID fails unless a category with id exists.
func (s *Service) ValidateCategoryID(ctx context.Context, id primitive.ObjectID) error {
	if id.IsZero() {
		return utils.BadRequest("Invalid category id")
	}
	var hit bool
	if s.cache.Get(ctx, existsKey(id), &hit) && hit {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := s.col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return errors.Wrap(err, "count category")
	}
	if n == 0 {
		return utils.NotFound("Category not found")
	}
	s.cache.Set(ctx, existsKey(id), true, existsTTL)
	return nil
}

func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cur, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find categories")
	}
	out := []models.Category{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.BadRequest("Invalid category id")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cat models.Category
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&cat); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NotFound("Category not found")
		}
		return nil, errors.Wrap(err, "find category")
	}
	return &cat, nil
}

func (s *Service) Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	cat := models.Category{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.col.InsertOne(ctx, cat); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, utils.BadRequest("Category already exists")
		}
		return nil, errors.Wrap(err, "insert category")
	}
	s.cache.Del(ctx, existsKey(cat.ID))
	s.log.Info("category created", zap.String("id", cat.ID.Hex()), zap.String("name", cat.Name))
	return &cat, nil
}
