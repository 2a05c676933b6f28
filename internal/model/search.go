package model

// SortKey selects the ordering applied to a filtered search result. Exactly one
// key is active per query.
type SortKey string

const (
	SortByCourseCode SortKey = "byCourseCode"
	SortByRating     SortKey = "byRating"
	SortByReviews    SortKey = "byReviews"
)

// TagMatchPolicy controls how a requested requirement set is matched against a
// course's requirement set.
type TagMatchPolicy string

const (
	// TagMatchAll keeps a course only when it carries every requested tag.
	TagMatchAll TagMatchPolicy = "all"
	// TagMatchAny keeps a course when it carries at least one requested tag.
	TagMatchAny TagMatchPolicy = "any"
)

// SearchQuery bundles the optional filter predicates, sort key, and pagination
// window for one catalog search. Zero values mean "no filtering" for the
// corresponding predicate. The query is transient; it is never persisted.
type SearchQuery struct {
	Institutions []string       `json:"institutions" validate:"omitempty,dive,min=2,max=8"`
	Departments  []string       `json:"departments" validate:"omitempty,dive,min=1,max=8"`
	Requirements []Requirement  `json:"requirements"`
	TagMatch     TagMatchPolicy `json:"tag_match" validate:"omitempty,oneof=all any"`

	MinCourseCode int  `json:"min_course_code" validate:"min=0"`
	NoPrereqsOnly bool `json:"no_prereqs_only"`

	MinRating     float64 `json:"min_rating" validate:"min=0,max=5"`
	MaxDifficulty float64 `json:"max_difficulty" validate:"min=0,max=5"`
	MaxWorkload   float64 `json:"max_workload" validate:"min=0,max=5"`
	MinUsefulness float64 `json:"min_usefulness" validate:"min=0,max=5"`
	MinInterest   float64 `json:"min_interest" validate:"min=0,max=5"`
	MinTeacher    float64 `json:"min_teacher" validate:"min=0,max=5"`
	MinReviews    int     `json:"min_reviews" validate:"min=0"`

	SortBy SortKey `json:"sort_by" validate:"omitempty,oneof=byCourseCode byRating byReviews"`
	Offset int     `json:"offset" validate:"min=0"`
	Limit  int     `json:"limit" validate:"min=1,max=200"`
}
