package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"app/internal/model"
	"app/internal/repository"
)

const defaultPageSize = 20

// SearchService answers catalog searches: AND-combined predicates over the full
// course collection, one sort key, offset/limit pagination.
type SearchService interface {
	// Search returns one page of matching courses plus the total filtered count,
	// so callers can compute page counts. An offset past the end yields an empty
	// page with the correct total. Malformed filter inputs never error; they
	// simply exclude records.
	Search(ctx context.Context, q model.SearchQuery) ([]model.Course, int, error)
}

type searchService struct {
	courses  repository.CourseRepository
	validate *validator.Validate
	log      zerolog.Logger
}

// NewSearchService creates a new SearchService.
func NewSearchService(courses repository.CourseRepository, logger zerolog.Logger) SearchService {
	return &searchService{
		courses:  courses,
		validate: validator.New(),
		log:      logger.With().Str("service", "SearchService").Logger(),
	}
}

func (s *searchService) Search(ctx context.Context, q model.SearchQuery) ([]model.Course, int, error) {
	if q.Limit == 0 {
		q.Limit = defaultPageSize
	}
	if q.SortBy == "" {
		q.SortBy = model.SortByCourseCode
	}
	if q.TagMatch == "" {
		q.TagMatch = model.TagMatchAll
	}
	if err := s.validate.Struct(q); err != nil {
		return nil, 0, fmt.Errorf("invalid search query: %w", err)
	}

	// Full snapshot per call: no persistent index, every query sees a
	// consistent view of the collection.
	courses, err := s.courses.ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	predicates := buildPredicates(q)
	filtered := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if matchesAll(&c, predicates) {
			filtered = append(filtered, c)
		}
	}

	sortCourses(filtered, q.SortBy)

	total := len(filtered)
	start := q.Offset
	if start > total {
		return []model.Course{}, total, nil
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

type predicate func(*model.Course) bool

func matchesAll(c *model.Course, predicates []predicate) bool {
	for _, p := range predicates {
		if !p(c) {
			return false
		}
	}
	return true
}

// buildPredicates translates the present query fields into a predicate
// pipeline; absent fields impose no filtering. Rating thresholds require at
// least one review, since a course with no reviews has no meaningful aggregate
// to compare against.
func buildPredicates(q model.SearchQuery) []predicate {
	var predicates []predicate

	if len(q.Institutions) > 0 {
		wanted := toSet(q.Institutions)
		predicates = append(predicates, func(c *model.Course) bool {
			_, ok := wanted[c.Institution]
			return ok
		})
	}
	if len(q.Departments) > 0 {
		wanted := toSet(q.Departments)
		predicates = append(predicates, func(c *model.Course) bool {
			_, ok := wanted[c.Department]
			return ok
		})
	}
	if q.MinCourseCode > 0 {
		min := q.MinCourseCode
		predicates = append(predicates, func(c *model.Course) bool {
			code, err := strconv.Atoi(c.CourseCode)
			if err != nil {
				// Non-numeric codes fail the numeric threshold.
				return false
			}
			return code >= min
		})
	}
	if len(q.Requirements) > 0 {
		wanted := q.Requirements
		switch q.TagMatch {
		case model.TagMatchAny:
			predicates = append(predicates, func(c *model.Course) bool {
				for _, r := range wanted {
					if c.HasRequirement(r) {
						return true
					}
				}
				return false
			})
		default: // TagMatchAll
			predicates = append(predicates, func(c *model.Course) bool {
				for _, r := range wanted {
					if !c.HasRequirement(r) {
						return false
					}
				}
				return true
			})
		}
	}
	if q.NoPrereqsOnly {
		predicates = append(predicates, func(c *model.Course) bool {
			return c.NoPrereqs != nil && *c.NoPrereqs
		})
	}
	if q.MinRating > 0 {
		min := q.MinRating
		predicates = append(predicates, func(c *model.Course) bool {
			return c.TotalReviews > 0 && c.AverageOverall >= min
		})
	}
	if q.MaxDifficulty > 0 {
		max := q.MaxDifficulty
		predicates = append(predicates, func(c *model.Course) bool {
			return c.TotalReviews > 0 && c.AverageDifficulty <= max
		})
	}
	if q.MaxWorkload > 0 {
		max := q.MaxWorkload
		predicates = append(predicates, func(c *model.Course) bool {
			return c.TotalReviews > 0 && c.AverageWorkload <= max
		})
	}
	if q.MinUsefulness > 0 {
		min := q.MinUsefulness
		predicates = append(predicates, func(c *model.Course) bool {
			return c.TotalReviews > 0 && c.AverageUsefulness >= min
		})
	}
	if q.MinInterest > 0 {
		min := q.MinInterest
		predicates = append(predicates, func(c *model.Course) bool {
			return c.TotalReviews > 0 && c.AverageInterest >= min
		})
	}
	if q.MinTeacher > 0 {
		min := q.MinTeacher
		predicates = append(predicates, func(c *model.Course) bool {
			return c.TotalReviews > 0 && c.AverageTeacher >= min
		})
	}
	if q.MinReviews > 0 {
		min := q.MinReviews
		predicates = append(predicates, func(c *model.Course) bool {
			return c.TotalReviews >= min
		})
	}

	return predicates
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func sortCourses(courses []model.Course, key model.SortKey) {
	switch key {
	case model.SortByRating:
		sort.SliceStable(courses, func(i, j int) bool {
			return courses[i].AverageOverall > courses[j].AverageOverall
		})
	case model.SortByReviews:
		sort.SliceStable(courses, func(i, j int) bool {
			return courses[i].TotalReviews > courses[j].TotalReviews
		})
	default: // SortByCourseCode, ascending
		sort.SliceStable(courses, func(i, j int) bool {
			return compareCourseCodes(courses[i].CourseCode, courses[j].CourseCode) < 0
		})
	}
}

// compareCourseCodes orders numeric codes numerically ("9" before "10") and
// falls back to plain string comparison when either side fails to parse.
func compareCourseCodes(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	default:
		return 0
	}
}
