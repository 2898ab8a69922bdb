package courses

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter selects courses. Set fields are AND-ed.
type Filter struct {
	Published *bool
	Category  *primitive.ObjectID
	Level     string
	Mentor    *primitive.ObjectID
	Student   *primitive.ObjectID
	Status    string
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
}

func (f Filter) BSON() bson.M {
	m := bson.M{}
	if f.Published != nil {
		m["isPublished"] = *f.Published
	}
	if f.Category != nil {
		m["category"] = *f.Category
	}
	if f.Level != "" {
		m["level"] = f.Level
	}
	if f.Mentor != nil {
		m["mentor"] = *f.Mentor
	}
	if f.Student != nil {
		m["enrolledStudents"] = *f.Student
	}
	if f.Status != "" {
		m["status"] = f.Status
	}
	if f.Search != "" {
		m["$text"] = bson.M{"$search": f.Search}
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		m["price"] = price
	}
	return m
}
