package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"app/internal/model"
	"app/internal/repository"
)

// ErrCourseNotFound is returned when a recompute is requested for a course that
// does not exist. Unlike crawl failures, this is a caller logic error.
var ErrCourseNotFound = errors.New("course not found")

// RatingService keeps each course's derived statistics consistent with the
// current set of reviews for that course.
type RatingService interface {
	// RecomputeRatings recomputes all derived rating fields for one course from
	// its full review list and writes them back in a single update. The review
	// service calls this after every review create, update, or delete.
	RecomputeRatings(ctx context.Context, courseID int64) (model.CourseStats, error)
}

type ratingService struct {
	courses repository.CourseRepository
	reviews repository.ReviewRepository
	log     zerolog.Logger

	// locks serializes recomputes per course. Concurrent recomputes of
	// different courses proceed independently.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewRatingService creates a new RatingService.
func NewRatingService(
	courses repository.CourseRepository,
	reviews repository.ReviewRepository,
	logger zerolog.Logger,
) RatingService {
	return &ratingService{
		courses: courses,
		reviews: reviews,
		log:     logger.With().Str("service", "RatingService").Logger(),
		locks:   make(map[int64]*sync.Mutex),
	}
}

func (s *ratingService) lockFor(courseID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[courseID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[courseID] = l
	}
	return l
}

func (s *ratingService) RecomputeRatings(ctx context.Context, courseID int64) (model.CourseStats, error) {
	lock := s.lockFor(courseID)
	lock.Lock()
	defer lock.Unlock()

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return model.CourseStats{}, fmt.Errorf("load course %d: %w", courseID, err)
	}
	if course == nil {
		return model.CourseStats{}, fmt.Errorf("recompute ratings for course %d: %w", courseID, ErrCourseNotFound)
	}

	reviews, err := s.reviews.ListByCourse(ctx, courseID)
	if err != nil {
		return model.CourseStats{}, fmt.Errorf("list reviews for course %d: %w", courseID, err)
	}

	stats := ComputeStats(reviews)
	if err := s.courses.UpdateStats(ctx, courseID, stats); err != nil {
		return model.CourseStats{}, fmt.Errorf("write stats for course %d: %w", courseID, err)
	}

	s.log.Info().
		Int64("course_id", courseID).
		Int("reviews", stats.TotalReviews).
		Float64("overall", stats.AverageOverall).
		Msg("Ratings recomputed")
	return stats, nil
}

// ComputeStats derives a course's rating statistics from its full review list.
// It is a pure function: recomputing from the same input always yields the same
// output, and removing a review then recomputing matches never having had it.
// An empty list produces all-zero statistics.
func ComputeStats(reviews []model.Review) model.CourseStats {
	stats := model.CourseStats{TotalReviews: len(reviews)}
	if len(reviews) == 0 {
		return stats
	}

	var usefulness, difficulty, workload, interest, teacher int
	for _, r := range reviews {
		usefulness += r.Usefulness
		difficulty += r.Difficulty
		workload += r.Workload
		interest += r.Interest
		teacher += r.Teacher
	}

	n := float64(len(reviews))
	stats.AverageUsefulness = float64(usefulness) / n
	stats.AverageDifficulty = float64(difficulty) / n
	stats.AverageWorkload = float64(workload) / n
	stats.AverageInterest = float64(interest) / n
	stats.AverageTeacher = float64(teacher) / n

	// Difficulty and workload are inverted so that lower raw ratings push the
	// overall score up. Averaging the inverted dimension means is equivalent to
	// averaging per-review overall scores.
	stats.AverageOverall = (stats.AverageUsefulness +
		(6.0 - stats.AverageDifficulty) +
		(6.0 - stats.AverageWorkload) +
		stats.AverageInterest +
		stats.AverageTeacher) / 5.0
	return stats
}
