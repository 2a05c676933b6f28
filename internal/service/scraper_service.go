package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"app/internal/model"
	"app/internal/repository"
	"app/internal/scraper"
)

// ErrNoSources is returned when a crawl is requested with zero configured
// institution sources. This is the only error RunFullCrawl surfaces; everything
// else is logged and skipped.
var ErrNoSources = errors.New("no crawl sources configured")

// ScraperService populates and enriches the course catalog from the external
// listing site.
type ScraperService interface {
	// RunFullCrawl performs the two-phase crawl across every configured source:
	// stub discovery over all listing pages, then detail enrichment for every
	// discovered course URL. Fetch and parse failures are logged per unit of
	// work and never abort the run.
	RunFullCrawl(ctx context.Context) error
}

type scraperService struct {
	courses repository.CourseRepository
	fetcher scraper.Fetcher
	sources []scraper.Source
	log     zerolog.Logger
}

// NewScraperService creates a new ScraperService.
func NewScraperService(
	courses repository.CourseRepository,
	fetcher scraper.Fetcher,
	sources []scraper.Source,
	logger zerolog.Logger,
) ScraperService {
	return &scraperService{
		courses: courses,
		fetcher: fetcher,
		sources: sources,
		log:     logger.With().Str("service", "ScraperService").Logger(),
	}
}

func (s *scraperService) RunFullCrawl(ctx context.Context) error {
	if len(s.sources) == 0 {
		return ErrNoSources
	}

	log := s.log.With().Str("run_id", uuid.NewString()).Logger()
	log.Info().Int("sources", len(s.sources)).Msg("Full crawl started")

	// Phase 1: stub discovery. Detail URLs are collected in discovery order and
	// deduplicated, since several sources can link the same course page.
	var detailURLs []string
	seen := make(map[string]struct{})
	for _, src := range s.sources {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		for _, u := range s.crawlSource(ctx, log, src) {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			detailURLs = append(detailURLs, u)
		}
	}
	log.Info().Int("courses", len(detailURLs)).Msg("Stub discovery complete")

	// Phase 2: detail enrichment, resolved by source URL.
	for _, u := range detailURLs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.enrich(ctx, log, u)
	}

	log.Info().Msg("Full crawl complete")
	return nil
}

// crawlSource walks one institution's listing pages and upserts course stubs,
// returning the course detail URLs it discovered.
func (s *scraperService) crawlSource(ctx context.Context, log zerolog.Logger, src scraper.Source) []string {
	log = log.With().Str("institution", src.Code).Str("base_url", src.BaseURL).Logger()

	pages := s.pageCount(ctx, log, src)
	log.Info().Int("pages", pages).Msg("Listing crawl started")

	var urls []string
	for page := 1; page <= pages; page++ {
		if ctx.Err() != nil {
			return urls
		}
		pageURL := src.BaseURL + strconv.Itoa(page)
		doc, err := s.fetcher.Get(ctx, pageURL)
		if err != nil {
			log.Warn().Err(err).Int("page", page).Msg("Listing page fetch failed, skipping")
			continue
		}

		for _, anchor := range scraper.CourseAnchors(doc, pageURL, src) {
			parsed, err := scraper.ParseCourseTitle(anchor.Text)
			if err != nil {
				log.Warn().Err(err).Str("url", anchor.URL).Msg("Malformed course title, skipping")
				continue
			}
			if err := s.saveStub(ctx, parsed, anchor.URL); err != nil {
				log.Warn().Err(err).Str("url", anchor.URL).Msg("Stub upsert failed, skipping")
				continue
			}
			urls = append(urls, anchor.URL)
		}
	}
	log.Info().Int("courses", len(urls)).Msg("Listing crawl complete")
	return urls
}

// pageCount probes the base listing page for its pagination control. Any
// failure here degrades to a single page rather than aborting the source.
func (s *scraperService) pageCount(ctx context.Context, log zerolog.Logger, src scraper.Source) int {
	doc, err := s.fetcher.Get(ctx, src.BaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("Page count probe failed, assuming a single page")
		return 1
	}
	return scraper.PageCount(doc)
}

// saveStub creates a catalog record for a newly discovered course. Re-crawling
// is idempotent: an existing record, enriched or not, is left untouched.
func (s *scraperService) saveStub(ctx context.Context, parsed scraper.CourseTitle, sourceURL string) error {
	existing, err := s.courses.FindByIdentity(ctx, parsed.Institution, parsed.Department, parsed.CourseCode)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	course := &model.Course{
		Institution: parsed.Institution,
		Department:  parsed.Department,
		CourseCode:  parsed.CourseCode,
		Title:       parsed.Title,
		SourceURL:   sourceURL,
		Requirement: []model.Requirement{},
	}
	return s.courses.Create(ctx, course)
}

// enrich fetches one course detail page and writes requirement tags,
// description, and the prerequisite flag onto the record matching its URL.
func (s *scraperService) enrich(ctx context.Context, log zerolog.Logger, sourceURL string) {
	doc, err := s.fetcher.Get(ctx, sourceURL)
	if err != nil {
		log.Warn().Err(err).Str("url", sourceURL).Msg("Detail page fetch failed, skipping")
		return
	}
	detail := scraper.ParseCourseDetail(doc)

	course, err := s.courses.FindByURL(ctx, sourceURL)
	if err != nil {
		log.Warn().Err(err).Str("url", sourceURL).Msg("Course lookup by URL failed, skipping")
		return
	}
	if course == nil {
		log.Warn().Str("url", sourceURL).Msg("No course found for URL, skipping")
		return
	}

	// Display names that match no known requirement are dropped silently.
	requirements := make([]model.Requirement, 0, len(detail.RequirementNames))
	for _, name := range detail.RequirementNames {
		if req, ok := model.RequirementByName(name); ok {
			requirements = append(requirements, req)
		}
	}

	noPrereqs := scraper.NoPrereqs(detail.Description)
	course.Requirement = requirements
	course.Description = detail.Description
	course.NoPrereqs = &noPrereqs

	if err := s.courses.UpdateEnrichment(ctx, course); err != nil {
		log.Warn().Err(err).Str("url", sourceURL).Msg("Enrichment update failed, skipping")
	}
}
