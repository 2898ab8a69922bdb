package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"learnhub-backend/src/constants"
	"learnhub-backend/src/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator with the course rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		for tag, fn := range rules {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(fmt.Sprintf("register validation %q: %v", tag, err))
			}
		}
		validate = v
	})
	return validate
}

func runeLen(fl validator.FieldLevel) int {
	return utf8.RuneCountInString(fl.Field().String())
}

func oneOf(set []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return constants.Contains(set, fl.Field().String())
	}
}

func floatBetween(min, max float64) validator.Func {
	return func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f >= min && f <= max
	}
}

func intAtLeast(min int64) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return fl.Field().Int() >= min
	}
}

func maxRunes(max int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return runeLen(fl) <= max
	}
}

var rules = map[string]validator.Func{
	"objectid": func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	},
	"coursetitle": func(fl validator.FieldLevel) bool {
		n := runeLen(fl)
		return n >= constants.CourseTitleMin && n <= constants.CourseTitleMax
	},
	"coursedesc":      maxRunes(constants.CourseDescriptionMax),
	"contenttitle":    maxRunes(constants.ContentTitleMax),
	"contentdesc":     maxRunes(constants.ContentDescriptionMax),
	"review":          maxRunes(constants.ReviewMax),
	"price":           floatBetween(constants.PriceMin, constants.PriceMax),
	"rating":          floatBetween(constants.RatingMin, constants.RatingMax),
	"courseduration":  intAtLeast(constants.CourseMinDuration),
	"contentduration": intAtLeast(constants.ContentMinDuration),
	"level":           oneOf(constants.CourseLevels),
	"coursestatus":    oneOf(constants.CourseStatuses),
	"sortkey":         oneOf(constants.SortKeys),
	"pagelimit": func(fl validator.FieldLevel) bool {
		n := fl.Field().Int()
		return n >= 1 && n <= constants.MaxLimit
	},
	"search": func(fl validator.FieldLevel) bool {
		return runeLen(fl) >= constants.SearchMin
	},
}

// labels name fields in messages. Keys drop list indices.
var labels = map[string]string{
	"id":                  "Course ID",
	"title":               "Title",
	"description":         "Description",
	"thumbnail":           "Thumbnail",
	"price":               "Price",
	"category":            "Category",
	"level":               "Level",
	"duration":            "Duration",
	"content":             "Content",
	"content.title":       "Content title",
	"content.description": "Content description",
	"content.videoUrl":    "Content video URL",
	"content.duration":    "Content duration",
	"status":              "Status",
	"mentor":              "Mentor",
	"rating":              "Rating",
	"review":              "Review",
	"minPrice":            "Minimum price",
	"maxPrice":            "Maximum price",
	"page":                "Page number",
	"limit":               "Limit",
	"search":              "Search query",
	"name":                "Name",
}

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)
var indexKeyPattern = regexp.MustCompile(`\.\d+`)

// fieldPath turns "CreateCourseRequest.content[0].title" into "content.0.title".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return indexPattern.ReplaceAllString(ns, ".$1")
}

func labelFor(path string) string {
	if l, ok := labels[indexKeyPattern.ReplaceAllString(path, "")]; ok {
		return l
	}
	return path
}

func numericValue(v interface{}) float64 {
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.String:
		return float64(utf8.RuneCountInString(rv.String()))
	}
	return 0
}

func message(path string, fe validator.FieldError) string {
	label := labelFor(path)
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "coursetitle":
		if numericValue(fe.Value()) < constants.CourseTitleMin {
			return fmt.Sprintf("Title must be at least %d characters", constants.CourseTitleMin)
		}
		return fmt.Sprintf("Title cannot be more than %d characters", constants.CourseTitleMax)
	case "coursedesc":
		return fmt.Sprintf("Description cannot be more than %d characters", constants.CourseDescriptionMax)
	case "contenttitle":
		return fmt.Sprintf("Content title cannot be more than %d characters", constants.ContentTitleMax)
	case "contentdesc":
		return fmt.Sprintf("Content description cannot be more than %d characters", constants.ContentDescriptionMax)
	case "review":
		return fmt.Sprintf("Review cannot be more than %d characters", constants.ReviewMax)
	case "url":
		return "Invalid URL format"
	case "price":
		if numericValue(fe.Value()) < constants.PriceMin {
			return fmt.Sprintf("%s must be at least %d", label, constants.PriceMin)
		}
		return fmt.Sprintf("%s cannot exceed %d", label, constants.PriceMax)
	case "rating":
		if numericValue(fe.Value()) < constants.RatingMin {
			return fmt.Sprintf("Rating must be at least %d", constants.RatingMin)
		}
		return fmt.Sprintf("Rating cannot exceed %d", constants.RatingMax)
	case "courseduration", "contentduration":
		return fmt.Sprintf("%s must be at least 1 minute", label)
	case "level":
		return constants.MsgInvalidLevel
	case "coursestatus":
		return constants.MsgInvalidStatus
	case "sortkey":
		return "Invalid sort parameter"
	case "objectid":
		if path == "category" {
			return constants.MsgInvalidCategory
		}
		return fmt.Sprintf("Invalid %s format", strings.ToLower(label))
	case "pagelimit":
		if numericValue(fe.Value()) < 1 {
			return "Limit must be at least 1"
		}
		return fmt.Sprintf("Limit cannot exceed %d", constants.MaxLimit)
	case "search":
		return fmt.Sprintf("Search query must be at least %d characters", constants.SearchMin)
	case "min":
		if path == "content" {
			return "At least one content item is required"
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot be more than %s", label, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", label)
}

// Struct validates s and returns every violated rule, or nil.
func Struct(s interface{}) []models.FieldError {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []models.FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		out = append(out, models.FieldError{Field: path, Message: message(path, fe)})
	}
	return out
}
