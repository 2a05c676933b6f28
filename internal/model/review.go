package model

import "time"

// Review is a user-submitted course review. Review writes belong to the review
// service; this side only reads the full per-course list when recomputing
// aggregates. All five ratings are 1–5 integers, validated upstream.
type Review struct {
	ID       int64 `db:"id" json:"id"`
	CourseID int64 `db:"course_id" json:"course_id"`

	Usefulness int `db:"usefulness_rating" json:"usefulness_rating"`
	Difficulty int `db:"difficulty_rating" json:"difficulty_rating"`
	Workload   int `db:"workload_rating" json:"workload_rating"`
	Interest   int `db:"interest_rating" json:"interest_rating"`
	Teacher    int `db:"teacher_rating" json:"teacher_rating"`

	TeacherName  string    `db:"teacher_name" json:"teacher_name"`
	ReviewText   string    `db:"review_text" json:"review_text"`
	Semester     string    `db:"semester" json:"semester"`
	HoursPerWeek int       `db:"hours_per_week" json:"hours_per_week"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// OverallRating is the single 1–5 summary for one review. Difficulty and
// workload are inverted so that a lower raw rating contributes a higher score.
func (r *Review) OverallRating() float64 {
	invertedDifficulty := 6 - r.Difficulty
	invertedWorkload := 6 - r.Workload
	return float64(r.Usefulness+invertedDifficulty+invertedWorkload+r.Interest+r.Teacher) / 5.0
}
