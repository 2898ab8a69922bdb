package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is the stored course document.
type Course struct {
	ID               primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty" swaggertype:"string" example:"507f1f77bcf86cd799439011"`
	Title            string               `json:"title" bson:"title" example:"Go for Backend Engineers"`
	Slug             string               `json:"slug" bson:"slug" example:"go-for-backend-engineers"`
	Description      string               `json:"description" bson:"description"`
	Thumbnail        string               `json:"thumbnail" bson:"thumbnail" example:"https://cdn.example.com/go.png"`
	Price            float64              `json:"price" bson:"price" example:"49.99"`
	Category         primitive.ObjectID   `json:"category" bson:"category" swaggertype:"string"`
	Level            string               `json:"level" bson:"level" enums:"beginner,intermediate,advanced"`
	Duration         int                  `json:"duration" bson:"duration" example:"120"` // minutes
	Content          []ContentItem        `json:"content" bson:"content"`
	IsPublished      bool                 `json:"isPublished" bson:"isPublished"`
	Status           string               `json:"status" bson:"status" enums:"draft,published,archived"`
	Mentor           primitive.ObjectID   `json:"mentor" bson:"mentor" swaggertype:"string"`
	EnrolledStudents []primitive.ObjectID `json:"enrolledStudents" bson:"enrolledStudents" swaggertype:"array,string"`
	Ratings          []Rating             `json:"ratings" bson:"ratings"`
	AverageRating    float64              `json:"averageRating" bson:"averageRating"`
	RatingCount      int                  `json:"ratingCount" bson:"ratingCount"`
	CreatedAt        time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// ContentItem is one entry of a course's ordered content list.
type ContentItem struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	VideoURL    string `json:"videoUrl,omitempty" bson:"videoUrl,omitempty"`
	Duration    int    `json:"duration,omitempty" bson:"duration,omitempty"`
}

// Rating is a single user's rating of a course.
type Rating struct {
	User   primitive.ObjectID `json:"user" bson:"user" swaggertype:"string"`
	Rating float64            `json:"rating" bson:"rating"`
	Review string             `json:"review,omitempty" bson:"review,omitempty"`
	Date   time.Time          `json:"date" bson:"date"`
}

// IsEnrolled reports whether userID is in the enrolled set.
func (c *Course) IsEnrolled(userID primitive.ObjectID) bool {
	for _, id := range c.EnrolledStudents {
		if id == userID {
			return true
		}
	}
	return false
}

// RatingIndex returns the position of userID's rating, or -1.
func (c *Course) RatingIndex(userID primitive.ObjectID) int {
	for i, r := range c.Ratings {
		if r.User == userID {
			return i
		}
	}
	return -1
}

// RecalculateRating derives AverageRating and RatingCount from Ratings.
func (c *Course) RecalculateRating() {
	c.RatingCount = len(c.Ratings)
	if c.RatingCount == 0 {
		c.AverageRating = 0
		return
	}
	var sum float64
	for _, r := range c.Ratings {
		sum += r.Rating
	}
	c.AverageRating = sum / float64(c.RatingCount)
}

// RatingAggregatesStage is the update-pipeline form of RecalculateRating.
func RatingAggregatesStage() bson.D {
	return bson.D{{Key: "$set", Value: bson.M{
		"ratingCount":   bson.M{"$size": bson.M{"$ifNull": bson.A{"$ratings", bson.A{}}}},
		"averageRating": bson.M{"$ifNull": bson.A{bson.M{"$avg": "$ratings.rating"}, 0}},
	}}}
}

// UserSummary is the populated form of a user reference.
type UserSummary struct {
	ID    primitive.ObjectID `json:"id" bson:"_id" swaggertype:"string"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
}

// CategorySummary is the populated form of a category reference.
type CategorySummary struct {
	ID   primitive.ObjectID `json:"id" bson:"_id" swaggertype:"string"`
	Name string             `json:"name" bson:"name"`
}

// CourseSummary is a listing row with mentor and category populated.
type CourseSummary struct {
	ID            primitive.ObjectID `json:"id" bson:"_id" swaggertype:"string"`
	Title         string             `json:"title" bson:"title"`
	Slug          string             `json:"slug" bson:"slug"`
	Description   string             `json:"description" bson:"description"`
	Thumbnail     string             `json:"thumbnail" bson:"thumbnail"`
	Price         float64            `json:"price" bson:"price"`
	Category      *CategorySummary   `json:"category" bson:"category"`
	Level         string             `json:"level" bson:"level"`
	Duration      int                `json:"duration" bson:"duration"`
	IsPublished   bool               `json:"isPublished" bson:"isPublished"`
	Status        string             `json:"status" bson:"status"`
	Mentor        *UserSummary       `json:"mentor" bson:"mentor"`
	AverageRating float64            `json:"averageRating" bson:"averageRating"`
	RatingCount   int                `json:"ratingCount" bson:"ratingCount"`
	EnrolledCount int                `json:"enrolledCount" bson:"enrolledCount"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// RatingView is a rating with its author populated.
type RatingView struct {
	User   *UserSummary `json:"user" bson:"user"`
	Rating float64      `json:"rating" bson:"rating"`
	Review string       `json:"review,omitempty" bson:"review,omitempty"`
	Date   time.Time    `json:"date" bson:"date"`
}

// CourseDetail is a full course with every reference populated.
type CourseDetail struct {
	ID               primitive.ObjectID `json:"id" bson:"_id" swaggertype:"string"`
	Title            string             `json:"title" bson:"title"`
	Slug             string             `json:"slug" bson:"slug"`
	Description      string             `json:"description" bson:"description"`
	Thumbnail        string             `json:"thumbnail" bson:"thumbnail"`
	Price            float64            `json:"price" bson:"price"`
	Category         *CategorySummary   `json:"category" bson:"category"`
	Level            string             `json:"level" bson:"level"`
	Duration         int                `json:"duration" bson:"duration"`
	Content          []ContentItem      `json:"content" bson:"content"`
	IsPublished      bool               `json:"isPublished" bson:"isPublished"`
	Status           string             `json:"status" bson:"status"`
	Mentor           *UserSummary       `json:"mentor" bson:"mentor"`
	EnrolledStudents []UserSummary      `json:"enrolledStudents" bson:"enrolledStudents"`
	Ratings          []RatingView       `json:"ratings" bson:"ratings"`
	AverageRating    float64            `json:"averageRating" bson:"averageRating"`
	RatingCount      int                `json:"ratingCount" bson:"ratingCount"`
	EnrolledCount    int                `json:"enrolledCount" bson:"enrolledCount"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}
