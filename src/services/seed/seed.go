// Package seed fills an empty development database with sample users and
// categories, and issues bearer tokens for the seeded users.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"learnhub-backend/src/constants"
	"learnhub-backend/src/models"
	"learnhub-backend/src/utils"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// DefaultUsers covers one account per role.
var DefaultUsers = []models.User{
	{Name: "System Administrator", Email: "admin@learnhub.dev", Role: constants.RoleSuperAdmin},
	{Name: "Course Admin", Email: "staff@learnhub.dev", Role: constants.RoleAdmin},
	{Name: "John Mentor", Email: "mentor@learnhub.dev", Role: constants.RoleMentor},
	{Name: "Jane Student", Email: "student@learnhub.dev", Role: constants.RoleStudent},
}

var DefaultCategories = []models.CreateCategoryRequest{
	{Name: "Programming", Description: "Languages, tooling and software design"},
	{Name: "Data Science", Description: "Statistics, machine learning and analytics"},
	{Name: "Design", Description: "UI, UX and visual design"},
	{Name: "Business", Description: "Management, marketing and finance"},
}

// Credential is a seeded user together with a token for it.
type Credential struct {
	UserID string
	Email  string
	Role   string
	Token  string
}

type Seeder struct {
	users      *mongo.Collection
	categories *mongo.Collection
	jwt        *utils.JWT
	log        *zap.Logger
}

func NewSeeder(users, categories *mongo.Collection, j *utils.JWT, log *zap.Logger) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{users: users, categories: categories, jwt: j, log: log}
}

// Run inserts whatever default users and categories are missing and returns
// a credential for every default user, existing or new.
func (s *Seeder) Run(ctx context.Context) ([]Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	s.log.Info("seeding database")
	if err := s.seedCategories(ctx); err != nil {
		return nil, err
	}

	creds := make([]Credential, 0, len(DefaultUsers))
	for _, u := range DefaultUsers {
		id, err := s.ensureUser(ctx, u)
		if err != nil {
			return nil, err
		}
		token, err := s.jwt.Generate(id.Hex(), u.Email, u.Role)
		if err != nil {
			return nil, errors.Wrapf(err, "issue token for %s", u.Email)
		}
		creds = append(creds, Credential{UserID: id.Hex(), Email: u.Email, Role: u.Role, Token: token})
	}
	return creds, nil
}

func (s *Seeder) ensureUser(ctx context.Context, u models.User) (primitive.ObjectID, error) {
	var existing models.User
	err := s.users.FindOne(ctx, bson.M{"email": u.Email}).Decode(&existing)
	if err == nil {
		s.log.Debug("user exists, skipping", zap.String("email", u.Email))
		return existing.ID, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, errors.Wrapf(err, "look up user %s", u.Email)
	}

	u.ID = primitive.NewObjectID()
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		return primitive.NilObjectID, errors.Wrapf(err, "create user %s", u.Email)
	}
	s.log.Info("created user", zap.String("email", u.Email), zap.String("role", u.Role))
	return u.ID, nil
}

func (s *Seeder) seedCategories(ctx context.Context) error {
	for _, c := range DefaultCategories {
		res, err := s.categories.UpdateOne(ctx,
			bson.M{"name": c.Name},
			bson.M{"$setOnInsert": bson.M{
				"name":        c.Name,
				"description": c.Description,
				"createdAt":   time.Now().UTC(),
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return errors.Wrapf(err, "seed category %s", c.Name)
		}
		if res.UpsertedCount > 0 {
			s.log.Info("created category", zap.String("name", c.Name))
		}
	}
	return nil
}

// Format renders credentials for the terminal or a file.
func Format(creds []Credential) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Seeded user tokens - %s\n\n", time.Now().Format(time.RFC3339))
	for _, c := range creds {
		fmt.Fprintf(&b, "Email: %s\nRole: %s\nUser ID: %s\nToken: %s\n------------------------\n",
			c.Email, c.Role, c.UserID, c.Token)
	}
	return b.String()
}

// SaveToFile truncates filePath and writes the credentials to it.
func SaveToFile(creds []Credential, filePath string) error {
	if len(creds) == 0 {
		return nil
	}
	if err := os.WriteFile(filePath, []byte(Format(creds)), 0o600); err != nil {
		return errors.Wrapf(err, "write tokens to %s", filePath)
	}
	return nil
}
