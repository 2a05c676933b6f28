package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"app/internal/model"
)

// ReviewRepository is the read side of the review store. Review creation,
// editing, and deletion belong to the review service; the rating recompute only
// needs the authoritative full list for one course.
type ReviewRepository interface {
	// ListByCourse returns every review for the given course.
	ListByCourse(ctx context.Context, courseID int64) ([]model.Review, error)
}

type reviewRepo struct {
	pool *pgxpool.Pool
}

// NewReviewRepo creates a new ReviewRepository backed by Postgres.
func NewReviewRepo(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepo{pool: pool}
}

func (r *reviewRepo) ListByCourse(ctx context.Context, courseID int64) ([]model.Review, error) {
	query := `
		SELECT id, course_id, usefulness_rating, difficulty_rating,
		       workload_rating, interest_rating, teacher_rating,
		       teacher_name, review_text, semester, hours_per_week, created_at
		FROM reviews
		WHERE course_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.CourseID,
			&rv.Usefulness,
			&rv.Difficulty,
			&rv.Workload,
			&rv.Interest,
			&rv.Teacher,
			&rv.TeacherName,
			&rv.ReviewText,
			&rv.Semester,
			&rv.HoursPerWeek,
			&rv.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return []model.Review{}, nil
	}
	return reviews, nil
}
