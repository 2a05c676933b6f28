package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"app/internal/repository"
)

const (
	directoryInstitutionsKey   = "directory:institutions"
	directoryDepartmentsKeyFmt = "directory:departments:%s"
)

// DirectoryService serves the institution list and per-institution department
// lists derived from the catalog. It is an explicitly owned cache, constructed
// once at startup: callers get a loaded snapshot, and invalidation happens only
// through Refresh (the scheduler calls it after each crawl) or Redis TTL expiry
// for the shared copy.
type DirectoryService interface {
	// EnsureLoaded populates the snapshot if it has not been loaded yet.
	EnsureLoaded(ctx context.Context) error
	// Refresh recomputes the snapshot from the catalog store and rewrites the
	// Redis copy.
	Refresh(ctx context.Context) error
	// Institutions returns the distinct institution codes in the catalog.
	Institutions(ctx context.Context) ([]string, error)
	// Departments returns the distinct departments of one institution.
	Departments(ctx context.Context, institution string) ([]string, error)
}

type directoryService struct {
	courses repository.CourseRepository
	rdb     *redis.Client // nil disables the shared cache layer
	ttl     time.Duration
	log     zerolog.Logger

	mu           sync.RWMutex
	loaded       bool
	institutions []string
	departments  map[string][]string
}

// NewDirectoryService creates a new DirectoryService. rdb may be nil, in which
// case the directory is purely in-process.
func NewDirectoryService(
	courses repository.CourseRepository,
	rdb *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) DirectoryService {
	return &directoryService{
		courses:     courses,
		rdb:         rdb,
		ttl:         ttl,
		log:         logger.With().Str("service", "DirectoryService").Logger(),
		departments: make(map[string][]string),
	}
}

func (s *directoryService) EnsureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	if s.loadFromRedis(ctx) {
		return nil
	}
	return s.Refresh(ctx)
}

func (s *directoryService) Refresh(ctx context.Context) error {
	institutions, err := s.courses.ListInstitutions(ctx)
	if err != nil {
		return fmt.Errorf("list institutions: %w", err)
	}
	departments := make(map[string][]string, len(institutions))
	for _, inst := range institutions {
		depts, err := s.courses.ListDepartments(ctx, inst)
		if err != nil {
			return fmt.Errorf("list departments for %s: %w", inst, err)
		}
		departments[inst] = depts
	}

	s.mu.Lock()
	s.institutions = institutions
	s.departments = departments
	s.loaded = true
	s.mu.Unlock()

	s.writeToRedis(ctx, institutions, departments)
	s.log.Info().Int("institutions", len(institutions)).Msg("Directory refreshed")
	return nil
}

func (s *directoryService) Institutions(ctx context.Context) ([]string, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.institutions))
	copy(out, s.institutions)
	return out, nil
}

func (s *directoryService) Departments(ctx context.Context, institution string) ([]string, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	depts := s.departments[institution]
	out := make([]string, len(depts))
	copy(out, depts)
	return out, nil
}

// loadFromRedis tries to seed the snapshot from the shared cache. Any miss or
// error just reports false and the caller falls back to the store.
func (s *directoryService) loadFromRedis(ctx context.Context) bool {
	if s.rdb == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, directoryInstitutionsKey).Bytes()
	if err != nil {
		return false
	}
	var institutions []string
	if err := json.Unmarshal(raw, &institutions); err != nil {
		return false
	}

	departments := make(map[string][]string, len(institutions))
	for _, inst := range institutions {
		raw, err := s.rdb.Get(ctx, fmt.Sprintf(directoryDepartmentsKeyFmt, inst)).Bytes()
		if err != nil {
			return false
		}
		var depts []string
		if err := json.Unmarshal(raw, &depts); err != nil {
			return false
		}
		departments[inst] = depts
	}

	s.mu.Lock()
	s.institutions = institutions
	s.departments = departments
	s.loaded = true
	s.mu.Unlock()
	return true
}

// writeToRedis mirrors the snapshot into the shared cache, best-effort.
func (s *directoryService) writeToRedis(ctx context.Context, institutions []string, departments map[string][]string) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(institutions)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, directoryInstitutionsKey, raw, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to cache institution list")
		return
	}
	for inst, depts := range departments {
		raw, err := json.Marshal(depts)
		if err != nil {
			continue
		}
		key := fmt.Sprintf(directoryDepartmentsKeyFmt, inst)
		if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
			s.log.Warn().Err(err).Str("institution", inst).Msg("Failed to cache department list")
		}
	}
}
