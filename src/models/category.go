package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty" swaggertype:"string"`
	Name        string             `json:"name" bson:"name" example:"Programming"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// CreateCategoryRequest is the body of POST /categories.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Description string `json:"description" validate:"omitempty,max=500"`
}
