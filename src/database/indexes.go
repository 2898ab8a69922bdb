package database

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the course and category indexes. Creation is
// idempotent; failures are collected so startup reports all of them.
func EnsureIndexes(ctx context.Context, d *mongo.Database) error {
	var problems []string
	if err := ensureCourses(ctx, d.Collection(CoursesCollection)); err != nil {
		problems = append(problems, "courses: "+err.Error())
	}
	if err := ensureCategories(ctx, d.Collection(CategoriesCollection)); err != nil {
		problems = append(problems, "categories: "+err.Error())
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureCourses(ctx context.Context, c *mongo.Collection) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("courses_text"),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("courses_slug"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "level", Value: 1}},
			Options: options.Index().SetName("courses_category_level"),
		},
		{
			Keys:    bson.D{{Key: "mentor", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("courses_mentor_created"),
		},
		{
			Keys:    bson.D{{Key: "isPublished", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("courses_visibility"),
		},
		{
			Keys:    bson.D{{Key: "enrolledStudents", Value: 1}},
			Options: options.Index().SetName("courses_enrolled"),
		},
	}
	_, err := c.Indexes().CreateMany(ctx, models)
	return err
}

func ensureCategories(ctx context.Context, c *mongo.Collection) error {
	_, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("categories_name").SetUnique(true),
	})
	return err
}
