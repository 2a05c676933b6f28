package service_test

import (
	"context"
	"sort"
	"sync"

	"app/internal/model"
)

// memCourseRepo is an in-memory CourseRepository for tests. It mirrors the
// Postgres implementation's contracts: identity-conflicting creates are a
// no-op, lookups return (nil, nil) on a miss.
type memCourseRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*model.Course
}

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{byID: make(map[int64]*model.Course)}
}

func cloneCourse(c *model.Course) *model.Course {
	dup := *c
	dup.Requirement = append([]model.Requirement(nil), c.Requirement...)
	return &dup
}

func (m *memCourseRepo) FindByIdentity(_ context.Context, institution, department, courseCode string) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.Institution == institution && c.Department == department && c.CourseCode == courseCode {
			return cloneCourse(c), nil
		}
	}
	return nil, nil
}

func (m *memCourseRepo) FindByURL(_ context.Context, sourceURL string) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.SourceURL == sourceURL {
			return cloneCourse(c), nil
		}
	}
	return nil, nil
}

func (m *memCourseRepo) GetByID(_ context.Context, courseID int64) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[courseID]
	if !ok {
		return nil, nil
	}
	return cloneCourse(c), nil
}

func (m *memCourseRepo) Create(_ context.Context, c *model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Institution == c.Institution &&
			existing.Department == c.Department &&
			existing.CourseCode == c.CourseCode {
			return nil
		}
	}
	m.nextID++
	c.ID = m.nextID
	m.byID[c.ID] = cloneCourse(c)
	return nil
}

func (m *memCourseRepo) UpdateEnrichment(_ context.Context, c *model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[c.ID]
	if !ok {
		return nil
	}
	stored.Description = c.Description
	stored.NoPrereqs = c.NoPrereqs
	stored.Requirement = append([]model.Requirement(nil), c.Requirement...)
	return nil
}

func (m *memCourseRepo) UpdateStats(_ context.Context, courseID int64, stats model.CourseStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[courseID]
	if !ok {
		return nil
	}
	stored.TotalReviews = stats.TotalReviews
	stored.AverageOverall = stats.AverageOverall
	stored.AverageUsefulness = stats.AverageUsefulness
	stored.AverageDifficulty = stats.AverageDifficulty
	stored.AverageWorkload = stats.AverageWorkload
	stored.AverageInterest = stats.AverageInterest
	stored.AverageTeacher = stats.AverageTeacher
	return nil
}

func (m *memCourseRepo) ListAll(_ context.Context) ([]model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.byID))
	for id := range m.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	courses := make([]model.Course, 0, len(ids))
	for _, id := range ids {
		courses = append(courses, *cloneCourse(m.byID[id]))
	}
	return courses, nil
}

func (m *memCourseRepo) ListInstitutions(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var institutions []string
	for _, c := range m.byID {
		if !seen[c.Institution] {
			seen[c.Institution] = true
			institutions = append(institutions, c.Institution)
		}
	}
	sort.Strings(institutions)
	return institutions, nil
}

func (m *memCourseRepo) ListDepartments(_ context.Context, institution string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var departments []string
	for _, c := range m.byID {
		if c.Institution == institution && !seen[c.Department] {
			seen[c.Department] = true
			departments = append(departments, c.Department)
		}
	}
	sort.Strings(departments)
	return departments, nil
}

// memReviewRepo is an in-memory read-only review store.
type memReviewRepo struct {
	mu       sync.Mutex
	byCourse map[int64][]model.Review
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{byCourse: make(map[int64][]model.Review)}
}

func (m *memReviewRepo) add(courseID int64, reviews ...model.Review) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byCourse[courseID] = append(m.byCourse[courseID], reviews...)
}

func (m *memReviewRepo) set(courseID int64, reviews []model.Review) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byCourse[courseID] = reviews
}

func (m *memReviewRepo) ListByCourse(_ context.Context, courseID int64) ([]model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Review(nil), m.byCourse[courseID]...), nil
}
