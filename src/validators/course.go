package validators

import (
	"strconv"
	"strings"

	"learnhub-backend/src/constants"
	"learnhub-backend/src/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidateCreate checks a create body and fills the status defaults.
func ValidateCreate(req *models.CreateCourseRequest) []models.FieldError {
	if errs := Struct(req); len(errs) > 0 {
		return errs
	}
	if req.IsPublished == nil {
		published := false
		req.IsPublished = &published
	}
	if req.Status == "" {
		req.Status = constants.StatusDraft
	}
	return nil
}

// ValidateUpdate checks a partial update body. Absent fields are not checked.
func ValidateUpdate(req *models.UpdateCourseRequest) []models.FieldError {
	return Struct(req)
}

func ValidateRating(req *models.RatingRequest) []models.FieldError {
	return Struct(req)
}

func ValidateCategory(req *models.CreateCategoryRequest) []models.FieldError {
	return Struct(req)
}

// ValidateID checks a course id path parameter.
func ValidateID(id string) []models.FieldError {
	if !primitive.IsValidObjectID(id) {
		return []models.FieldError{{Field: "id", Message: "Invalid course ID format"}}
	}
	return nil
}

type queryRules struct {
	MinPrice *float64 `json:"minPrice" validate:"omitempty,price"`
	MaxPrice *float64 `json:"maxPrice" validate:"omitempty,price"`
	Sort     string   `json:"sort" validate:"omitempty,sortkey"`
	Page     *int     `json:"page" validate:"omitempty,min=1,max=10000"`
	Limit    *int     `json:"limit" validate:"omitempty,pagelimit"`
	Category string   `json:"category" validate:"omitempty,objectid"`
	Level    string   `json:"level" validate:"omitempty,level"`
	Search   string   `json:"search" validate:"omitempty,search"`
	Status   string   `json:"status" validate:"omitempty,coursestatus"`
	Mentor   string   `json:"mentor" validate:"omitempty,objectid"`
}

// ValidateQuery converts and checks listing query parameters. The returned
// query has page, limit and sort defaults applied.
func ValidateQuery(in models.CourseQueryInput) (models.CourseQuery, []models.FieldError) {
	var errs []models.FieldError
	rules := queryRules{
		Sort:     strings.TrimSpace(in.Sort),
		Category: strings.TrimSpace(in.Category),
		Level:    strings.TrimSpace(in.Level),
		Search:   strings.TrimSpace(in.Search),
		Status:   strings.TrimSpace(in.Status),
		Mentor:   strings.TrimSpace(in.Mentor),
	}

	parseFloat := func(raw, field, msg string) *float64 {
		if raw == "" {
			return nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, models.FieldError{Field: field, Message: msg})
			return nil
		}
		return &f
	}
	parseInt := func(raw, field, msg string) *int {
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, models.FieldError{Field: field, Message: msg})
			return nil
		}
		return &n
	}

	rules.MinPrice = parseFloat(strings.TrimSpace(in.MinPrice), "minPrice", "Invalid minimum price")
	rules.MaxPrice = parseFloat(strings.TrimSpace(in.MaxPrice), "maxPrice", "Invalid maximum price")
	rules.Page = parseInt(strings.TrimSpace(in.Page), "page", "Invalid page number")
	rules.Limit = parseInt(strings.TrimSpace(in.Limit), "limit", "Invalid limit value")

	var published *bool
	switch strings.TrimSpace(in.IsPublished) {
	case "":
	case "true":
		v := true
		published = &v
	case "false":
		v := false
		published = &v
	default:
		errs = append(errs, models.FieldError{Field: "isPublished", Message: "isPublished must be a boolean"})
	}

	errs = append(errs, Struct(&rules)...)
	if len(errs) > 0 {
		return models.CourseQuery{}, errs
	}

	q := models.CourseQuery{
		MinPrice:    rules.MinPrice,
		MaxPrice:    rules.MaxPrice,
		Sort:        rules.Sort,
		Page:        constants.DefaultPage,
		Limit:       constants.DefaultLimit,
		Category:    rules.Category,
		Level:       rules.Level,
		Search:      rules.Search,
		IsPublished: published,
		Status:      rules.Status,
		Mentor:      rules.Mentor,
	}
	if q.Sort == "" {
		q.Sort = constants.DefaultSortKey
	}
	if rules.Page != nil {
		q.Page = *rules.Page
	}
	if rules.Limit != nil {
		q.Limit = *rules.Limit
	}
	return q, nil
}
