package model

import "time"

// Course represents one catalog entry scraped from an institution's course
// listing. Identity is the (institution, department, course code) tuple; once a
// record has been through the detail pass it is also addressable by SourceURL.
type Course struct {
	ID          int64         `db:"id" json:"id"`
	Institution string        `db:"institution" json:"institution"`
	Department  string        `db:"department" json:"department"`
	CourseCode  string        `db:"course_code" json:"course_code"`
	Title       string        `db:"title" json:"title"`
	SourceURL   string        `db:"source_url" json:"source_url"`
	Description *string       `db:"description" json:"description,omitempty"`
	NoPrereqs   *bool         `db:"no_prereqs" json:"no_prereqs,omitempty"`
	Requirement []Requirement `db:"requirements" json:"requirements"`

	// Aggregate fields are owned by the rating service and recomputed from the
	// full review set on every review mutation. Never hand-edited.
	TotalReviews      int     `db:"total_reviews" json:"total_reviews"`
	AverageOverall    float64 `db:"average_overall_rating" json:"average_overall_rating"`
	AverageUsefulness float64 `db:"average_usefulness_rating" json:"average_usefulness_rating"`
	AverageDifficulty float64 `db:"average_difficulty_rating" json:"average_difficulty_rating"`
	AverageWorkload   float64 `db:"average_workload_rating" json:"average_workload_rating"`
	AverageInterest   float64 `db:"average_interest_rating" json:"average_interest_rating"`
	AverageTeacher    float64 `db:"average_teacher_rating" json:"average_teacher_rating"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Display returns the catalog-style course label, e.g. "CAS CS 111".
func (c *Course) Display() string {
	return c.Institution + " " + c.Department + " " + c.CourseCode
}

// HasRequirement reports whether the course's requirement set contains r.
func (c *Course) HasRequirement(r Requirement) bool {
	for _, have := range c.Requirement {
		if have == r {
			return true
		}
	}
	return false
}

// CourseStats bundles the derived rating fields written back by a recompute.
// All six fields are always written together.
type CourseStats struct {
	TotalReviews      int
	AverageOverall    float64
	AverageUsefulness float64
	AverageDifficulty float64
	AverageWorkload   float64
	AverageInterest   float64
	AverageTeacher    float64
}
