package constants

// Course field limits. All bounds are inclusive.
const (
	CourseTitleMin       = 3
	CourseTitleMax       = 100
	CourseDescriptionMax = 2000
	CourseMinDuration    = 1

	ContentTitleMax       = 200
	ContentDescriptionMax = 1000
	ContentMinDuration    = 1

	PriceMin = 0
	PriceMax = 10000

	RatingMin = 1
	RatingMax = 5
	ReviewMax = 500

	SearchMin = 3
)

// Pagination defaults for course listings.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 10000
)

// Course levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Course status
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Sort keys accepted by the course listing. A leading "-" means descending.
const (
	SortNewest     = "-createdAt"
	SortOldest     = "createdAt"
	SortPriceAsc   = "price"
	SortPriceDesc  = "-price"
	SortTopRated   = "-averageRating"
	SortTitle      = "title"
	DefaultSortKey = SortNewest
)

var (
	CourseLevels   = []string{LevelBeginner, LevelIntermediate, LevelAdvanced}
	CourseStatuses = []string{StatusDraft, StatusPublished, StatusArchived}
	SortKeys       = []string{SortNewest, SortOldest, SortPriceAsc, SortPriceDesc, SortTopRated, SortTitle}
)

// Contains reports whether v is one of set. Matching is exact.
func Contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
