package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"app/internal/model"
)

// CourseRepository defines the catalog store consumed by the scraper, rating,
// search, and directory services.
type CourseRepository interface {
	// FindByIdentity looks a course up by its (institution, department, code)
	// tuple. Returns (nil, nil) when no record exists.
	FindByIdentity(ctx context.Context, institution, department, courseCode string) (*model.Course, error)
	// FindByURL looks a course up by its listing source URL.
	FindByURL(ctx context.Context, sourceURL string) (*model.Course, error)
	// GetByID retrieves a course by its ID. Returns (nil, nil) when missing.
	GetByID(ctx context.Context, courseID int64) (*model.Course, error)
	// Create inserts a new course, filling in c.ID. Inserting a course whose
	// identity tuple already exists is a no-op and leaves c.ID zero.
	Create(ctx context.Context, c *model.Course) error
	// UpdateEnrichment writes the detail-pass fields (description, requirement
	// set, prerequisite flag) for one course.
	UpdateEnrichment(ctx context.Context, c *model.Course) error
	// UpdateStats writes all derived rating fields for one course in a single
	// statement.
	UpdateStats(ctx context.Context, courseID int64, stats model.CourseStats) error
	// ListAll returns the full course collection.
	ListAll(ctx context.Context) ([]model.Course, error)
	// ListInstitutions returns the distinct institution codes present in the
	// catalog, sorted.
	ListInstitutions(ctx context.Context) ([]string, error)
	// ListDepartments returns the distinct departments of one institution, sorted.
	ListDepartments(ctx context.Context, institution string) ([]string, error)
}

type courseRepo struct {
	pool *pgxpool.Pool
}

// NewCourseRepo creates a new CourseRepository backed by Postgres.
func NewCourseRepo(pool *pgxpool.Pool) CourseRepository {
	return &courseRepo{pool: pool}
}

const courseColumns = `
	id, institution, department, course_code, title, source_url, description,
	no_prereqs, requirements, total_reviews, average_overall_rating,
	average_usefulness_rating, average_difficulty_rating, average_workload_rating,
	average_interest_rating, average_teacher_rating, created_at, updated_at
`

func scanCourse(row pgx.Row) (*model.Course, error) {
	var c model.Course
	var requirements []string
	err := row.Scan(
		&c.ID,
		&c.Institution,
		&c.Department,
		&c.CourseCode,
		&c.Title,
		&c.SourceURL,
		&c.Description,
		&c.NoPrereqs,
		&requirements,
		&c.TotalReviews,
		&c.AverageOverall,
		&c.AverageUsefulness,
		&c.AverageDifficulty,
		&c.AverageWorkload,
		&c.AverageInterest,
		&c.AverageTeacher,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.Requirement = make([]model.Requirement, 0, len(requirements))
	for _, code := range requirements {
		c.Requirement = append(c.Requirement, model.Requirement(code))
	}
	return &c, nil
}

func requirementCodes(reqs []model.Requirement) []string {
	codes := make([]string, len(reqs))
	for i, r := range reqs {
		codes[i] = string(r)
	}
	return codes
}

func (r *courseRepo) FindByIdentity(ctx context.Context, institution, department, courseCode string) (*model.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE institution = $1 AND department = $2 AND course_code = $3
	`
	return scanCourse(r.pool.QueryRow(ctx, query, institution, department, courseCode))
}

func (r *courseRepo) FindByURL(ctx context.Context, sourceURL string) (*model.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE source_url = $1
	`
	return scanCourse(r.pool.QueryRow(ctx, query, sourceURL))
}

func (r *courseRepo) GetByID(ctx context.Context, courseID int64) (*model.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE id = $1
	`
	return scanCourse(r.pool.QueryRow(ctx, query, courseID))
}

// Create relies on the unique index over (institution, department, course_code)
// so a concurrent duplicate insert degrades to a no-op instead of an error.
func (r *courseRepo) Create(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (
			institution, department, course_code, title, source_url, description,
			no_prereqs, requirements, total_reviews, average_overall_rating,
			average_usefulness_rating, average_difficulty_rating,
			average_workload_rating, average_interest_rating, average_teacher_rating
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (institution, department, course_code) DO NOTHING
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		c.Institution, c.Department, c.CourseCode, c.Title, c.SourceURL,
		c.Description, c.NoPrereqs, requirementCodes(c.Requirement),
		c.TotalReviews, c.AverageOverall, c.AverageUsefulness,
		c.AverageDifficulty, c.AverageWorkload, c.AverageInterest, c.AverageTeacher,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict path: the identity tuple already exists.
		return nil
	}
	return err
}

func (r *courseRepo) UpdateEnrichment(ctx context.Context, c *model.Course) error {
	query := `
		UPDATE courses
		SET description = $1, no_prereqs = $2, requirements = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		c.Description, c.NoPrereqs, requirementCodes(c.Requirement), c.ID,
	).Scan(&c.UpdatedAt)
}

func (r *courseRepo) UpdateStats(ctx context.Context, courseID int64, stats model.CourseStats) error {
	query := `
		UPDATE courses
		SET total_reviews = $1,
		    average_overall_rating = $2,
		    average_usefulness_rating = $3,
		    average_difficulty_rating = $4,
		    average_workload_rating = $5,
		    average_interest_rating = $6,
		    average_teacher_rating = $7,
		    updated_at = NOW()
		WHERE id = $8
	`
	_, err := r.pool.Exec(ctx, query,
		stats.TotalReviews, stats.AverageOverall, stats.AverageUsefulness,
		stats.AverageDifficulty, stats.AverageWorkload, stats.AverageInterest,
		stats.AverageTeacher, courseID,
	)
	return err
}

func (r *courseRepo) ListAll(ctx context.Context) ([]model.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		ORDER BY institution, department, course_code
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return []model.Course{}, nil
	}
	return courses, nil
}

func (r *courseRepo) ListInstitutions(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT institution FROM courses ORDER BY institution`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var institutions []string
	for rows.Next() {
		var inst string
		if err := rows.Scan(&inst); err != nil {
			return nil, err
		}
		institutions = append(institutions, inst)
	}
	return institutions, rows.Err()
}

func (r *courseRepo) ListDepartments(ctx context.Context, institution string) ([]string, error) {
	query := `
		SELECT DISTINCT department
		FROM courses
		WHERE institution = $1
		ORDER BY department
	`
	rows, err := r.pool.Query(ctx, query, institution)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []string
	for rows.Next() {
		var dept string
		if err := rows.Scan(&dept); err != nil {
			return nil, err
		}
		departments = append(departments, dept)
	}
	return departments, rows.Err()
}
