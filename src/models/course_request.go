package models

// CreateCourseRequest is the body of POST /courses.
type CreateCourseRequest struct {
	Title       string             `json:"title" validate:"required,coursetitle" example:"Go for Backend Engineers"`
	Description string             `json:"description" validate:"required,coursedesc"`
	Thumbnail   string             `json:"thumbnail" validate:"required,url" example:"https://cdn.example.com/go.png"`
	Price       *float64           `json:"price" validate:"required,price" example:"49.99"`
	Category    string             `json:"category" validate:"required,objectid" example:"507f1f77bcf86cd799439011"`
	Level       string             `json:"level" validate:"required,level" enums:"beginner,intermediate,advanced"`
	Duration    *int               `json:"duration" validate:"required,courseduration" example:"120"`
	Content     []ContentItemInput `json:"content" validate:"required,min=1,dive"`
	IsPublished *bool              `json:"isPublished"`
	Status      string             `json:"status" validate:"omitempty,coursestatus" enums:"draft,published,archived"`
	Mentor      string             `json:"mentor" validate:"omitempty,objectid"`
}

// ContentItemInput is one content entry as submitted by a client.
type ContentItemInput struct {
	Title       string `json:"title" validate:"required,contenttitle"`
	Description string `json:"description" validate:"omitempty,contentdesc"`
	VideoURL    string `json:"videoUrl" validate:"omitempty,url"`
	Duration    *int   `json:"duration" validate:"omitempty,contentduration"`
}

// UpdateCourseRequest is the body of PATCH /courses/:id. Its fields are the
// complete set of client-mutable course fields; mentor, enrolledStudents,
// ratings and averageRating have no field here and are dropped on decode.
type UpdateCourseRequest struct {
	Title       *string            `json:"title" validate:"omitempty,coursetitle"`
	Description *string            `json:"description" validate:"omitempty,coursedesc"`
	Thumbnail   *string            `json:"thumbnail" validate:"omitempty,url"`
	Price       *float64           `json:"price" validate:"omitempty,price"`
	Category    *string            `json:"category" validate:"omitempty,objectid"`
	Level       *string            `json:"level" validate:"omitempty,level"`
	Duration    *int               `json:"duration" validate:"omitempty,courseduration"`
	Content     []ContentItemInput `json:"content" validate:"omitempty,min=1,dive"`
	IsPublished *bool              `json:"isPublished"`
	Status      *string            `json:"status" validate:"omitempty,coursestatus"`
}

// MutableCourseFields is the allow-list of stored fields an update may touch.
var MutableCourseFields = []string{
	"title", "slug", "description", "thumbnail", "price", "category",
	"level", "duration", "content", "isPublished", "status", "updatedAt",
}

// IsEmpty reports whether the update carries no changes.
func (u *UpdateCourseRequest) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Thumbnail == nil &&
		u.Price == nil && u.Category == nil && u.Level == nil &&
		u.Duration == nil && u.Content == nil && u.IsPublished == nil && u.Status == nil
}

// RatingRequest is the body of POST /courses/:id/rate.
type RatingRequest struct {
	Rating *float64 `json:"rating" validate:"required,rating" example:"5"`
	Review string   `json:"review" validate:"omitempty,review" example:"Clear and practical."`
}

// CourseQueryInput holds the raw query string of course listings.
type CourseQueryInput struct {
	MinPrice    string `query:"minPrice"`
	MaxPrice    string `query:"maxPrice"`
	Sort        string `query:"sort"`
	Page        string `query:"page"`
	Limit       string `query:"limit"`
	Category    string `query:"category"`
	Level       string `query:"level"`
	Search      string `query:"search"`
	IsPublished string `query:"isPublished"`
	Status      string `query:"status"`
	Mentor      string `query:"mentor"`
}

// CourseQuery is a validated listing query with defaults applied.
type CourseQuery struct {
	MinPrice    *float64 `json:"minPrice,omitempty"`
	MaxPrice    *float64 `json:"maxPrice,omitempty"`
	Sort        string   `json:"sort"`
	Page        int      `json:"page"`
	Limit       int      `json:"limit"`
	Category    string   `json:"category,omitempty"`
	Level       string   `json:"level,omitempty"`
	Search      string   `json:"search,omitempty"`
	IsPublished *bool    `json:"isPublished,omitempty"`
	Status      string   `json:"status,omitempty"`
	Mentor      string   `json:"mentor,omitempty"`
}
