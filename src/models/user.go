package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is read here only to populate references.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Role  string             `bson:"role" json:"role"`
}
