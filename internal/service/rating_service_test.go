package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"app/internal/model"
	"app/internal/service"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ── ComputeStats ───────────────────────────────────────────────────────────

func TestComputeStats_SingleReview(t *testing.T) {
	reviews := []model.Review{
		{Usefulness: 5, Difficulty: 2, Workload: 3, Interest: 4, Teacher: 3},
	}
	stats := service.ComputeStats(reviews)

	if stats.TotalReviews != 1 {
		t.Errorf("TotalReviews = %d, want 1", stats.TotalReviews)
	}
	// (5 + (6-2) + (6-3) + 4 + 3) / 5 = 3.8
	if !almostEqual(stats.AverageOverall, 3.8) {
		t.Errorf("AverageOverall = %v, want 3.8", stats.AverageOverall)
	}
	if !almostEqual(stats.AverageUsefulness, 5) || !almostEqual(stats.AverageDifficulty, 2) ||
		!almostEqual(stats.AverageWorkload, 3) || !almostEqual(stats.AverageInterest, 4) ||
		!almostEqual(stats.AverageTeacher, 3) {
		t.Errorf("dimension averages do not match the single review: %+v", stats)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	stats := service.ComputeStats(nil)
	if stats != (model.CourseStats{}) {
		t.Errorf("empty review list should yield all-zero stats, got %+v", stats)
	}
}

func TestComputeStats_MatchesPerReviewOverallMean(t *testing.T) {
	reviews := []model.Review{
		{Usefulness: 5, Difficulty: 2, Workload: 3, Interest: 4, Teacher: 3},
		{Usefulness: 2, Difficulty: 5, Workload: 5, Interest: 1, Teacher: 2},
		{Usefulness: 4, Difficulty: 3, Workload: 2, Interest: 5, Teacher: 5},
	}
	stats := service.ComputeStats(reviews)

	var sum float64
	for i := range reviews {
		sum += reviews[i].OverallRating()
	}
	want := sum / float64(len(reviews))

	// Averaging inverted dimension means equals averaging per-review overalls.
	if !almostEqual(stats.AverageOverall, want) {
		t.Errorf("AverageOverall = %v, want mean of per-review overalls %v", stats.AverageOverall, want)
	}
}

func TestComputeStats_PureAndDeletionEquivalent(t *testing.T) {
	reviews := []model.Review{
		{Usefulness: 5, Difficulty: 1, Workload: 1, Interest: 5, Teacher: 5},
		{Usefulness: 1, Difficulty: 5, Workload: 5, Interest: 1, Teacher: 1},
		{Usefulness: 3, Difficulty: 3, Workload: 3, Interest: 3, Teacher: 3},
	}

	first := service.ComputeStats(reviews)
	second := service.ComputeStats(reviews)
	if first != second {
		t.Errorf("recomputing from the same input diverged: %+v vs %+v", first, second)
	}

	// Deleting the middle review and recomputing matches a history where it
	// never existed.
	withoutMiddle := []model.Review{reviews[0], reviews[2]}
	recomputed := service.ComputeStats(withoutMiddle)
	fresh := service.ComputeStats([]model.Review{
		{Usefulness: 5, Difficulty: 1, Workload: 1, Interest: 5, Teacher: 5},
		{Usefulness: 3, Difficulty: 3, Workload: 3, Interest: 3, Teacher: 3},
	})
	if recomputed != fresh {
		t.Errorf("deletion recompute diverged from fresh compute: %+v vs %+v", recomputed, fresh)
	}
}

// ── RecomputeRatings ───────────────────────────────────────────────────────

func TestRecomputeRatings_WritesAllDerivedFields(t *testing.T) {
	ctx := context.Background()
	courses := newMemCourseRepo()
	reviews := newMemReviewRepo()

	course := &model.Course{Institution: "CAS", Department: "CS", CourseCode: "112", Title: "Intro II"}
	if err := courses.Create(ctx, course); err != nil {
		t.Fatalf("seed course: %v", err)
	}
	reviews.add(course.ID,
		model.Review{CourseID: course.ID, Usefulness: 5, Difficulty: 2, Workload: 3, Interest: 4, Teacher: 3},
		model.Review{CourseID: course.ID, Usefulness: 3, Difficulty: 4, Workload: 5, Interest: 2, Teacher: 5},
	)

	svc := service.NewRatingService(courses, reviews, zerolog.Nop())
	stats, err := svc.RecomputeRatings(ctx, course.ID)
	if err != nil {
		t.Fatalf("RecomputeRatings returned unexpected error: %v", err)
	}
	if stats.TotalReviews != 2 {
		t.Errorf("TotalReviews = %d, want 2", stats.TotalReviews)
	}
	if !almostEqual(stats.AverageUsefulness, 4) {
		t.Errorf("AverageUsefulness = %v, want 4", stats.AverageUsefulness)
	}

	stored, err := courses.GetByID(ctx, course.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload course: %v", err)
	}
	if stored.TotalReviews != 2 || !almostEqual(stored.AverageOverall, stats.AverageOverall) {
		t.Errorf("stats not written back: %+v", stored)
	}
}

func TestRecomputeRatings_EmptyReviewListZeroes(t *testing.T) {
	ctx := context.Background()
	courses := newMemCourseRepo()
	reviews := newMemReviewRepo()

	course := &model.Course{Institution: "CAS", Department: "CS", CourseCode: "112"}
	if err := courses.Create(ctx, course); err != nil {
		t.Fatalf("seed course: %v", err)
	}
	reviews.add(course.ID,
		model.Review{CourseID: course.ID, Usefulness: 5, Difficulty: 1, Workload: 1, Interest: 5, Teacher: 5},
	)

	svc := service.NewRatingService(courses, reviews, zerolog.Nop())
	if _, err := svc.RecomputeRatings(ctx, course.ID); err != nil {
		t.Fatalf("first recompute: %v", err)
	}

	// The only review is deleted; the next recompute must zero everything.
	reviews.set(course.ID, nil)
	stats, err := svc.RecomputeRatings(ctx, course.ID)
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	if stats != (model.CourseStats{}) {
		t.Errorf("stats after deleting all reviews = %+v, want all zeros", stats)
	}
}

func TestRecomputeRatings_MissingCourse(t *testing.T) {
	svc := service.NewRatingService(newMemCourseRepo(), newMemReviewRepo(), zerolog.Nop())
	_, err := svc.RecomputeRatings(context.Background(), 42)
	if !errors.Is(err, service.ErrCourseNotFound) {
		t.Errorf("RecomputeRatings for a missing course = %v, want ErrCourseNotFound", err)
	}
}
