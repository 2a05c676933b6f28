package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"app/internal/config"
	"app/internal/logger"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/scheduler"
	"app/internal/scraper"
	"app/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Course catalog crawler, rating aggregator, and search engine",
	}

	rootCmd.AddCommand(crawlCmd())
	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(recomputeCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(directoryCmd())
	rootCmd.AddCommand(requirementsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env bundles everything a command needs after bootstrap.
type env struct {
	cfg     *config.Config
	log     zerolog.Logger
	pool    *pgxpool.Pool
	courses repository.CourseRepository
	reviews repository.ReviewRepository
}

func bootstrap(ctx context.Context) (*env, error) {
	log := logger.New()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	pool, err := repository.NewPool(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return &env{
		cfg:     cfg,
		log:     log,
		pool:    pool,
		courses: repository.NewCourseRepo(pool),
		reviews: repository.NewReviewRepo(pool),
	}, nil
}

func (e *env) close() {
	e.pool.Close()
}

func (e *env) sources() ([]scraper.Source, error) {
	if e.cfg.CrawlSources == "" {
		return scraper.DefaultSources(), nil
	}
	return scraper.ParseSources(e.cfg.CrawlSources)
}

func (e *env) scraperService() (service.ScraperService, error) {
	sources, err := e.sources()
	if err != nil {
		return nil, err
	}
	fetcher := scraper.NewFetcher(
		time.Duration(e.cfg.CrawlDelayMS)*time.Millisecond,
		time.Duration(e.cfg.FetchTimeoutSec)*time.Second,
		e.cfg.CrawlUserAgent,
	)
	return service.NewScraperService(e.courses, fetcher, sources, e.log), nil
}

func (e *env) directoryService(ctx context.Context) (service.DirectoryService, error) {
	var rdb *redis.Client
	if e.cfg.RedisURL != "" {
		opts, err := redis.ParseURL(e.cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis.ParseURL(%q): %w", e.cfg.RedisURL, err)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
	}
	ttl := time.Duration(e.cfg.DirectoryTTLMinutes) * time.Minute
	return service.NewDirectoryService(e.courses, rdb, ttl, e.log), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func crawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Run one full two-phase catalog crawl and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			e, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			svc, err := e.scraperService()
			if err != nil {
				return err
			}
			return svc.RunFullCrawl(ctx)
		},
	}
}

func scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the crawl on a cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			e, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			scraperSvc, err := e.scraperService()
			if err != nil {
				return err
			}
			directorySvc, err := e.directoryService(ctx)
			if err != nil {
				return err
			}

			sched := scheduler.New(scraperSvc, directorySvc, e.cfg.CrawlIntervalHours, e.log)
			if err := sched.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			sched.Stop()
			e.log.Info().Msg("Shutdown signal received, exiting...")
			return nil
		},
	}
}

func recomputeCmd() *cobra.Command {
	var courseID int64

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute derived rating statistics for one course",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			e, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			svc := service.NewRatingService(e.courses, e.reviews, e.log)
			stats, err := svc.RecomputeRatings(ctx, courseID)
			if err != nil {
				return err
			}

			fmt.Printf("Course %d: %d review(s)\n", courseID, stats.TotalReviews)
			fmt.Printf("  overall    %.2f\n", stats.AverageOverall)
			fmt.Printf("  usefulness %.2f\n", stats.AverageUsefulness)
			fmt.Printf("  difficulty %.2f\n", stats.AverageDifficulty)
			fmt.Printf("  workload   %.2f\n", stats.AverageWorkload)
			fmt.Printf("  interest   %.2f\n", stats.AverageInterest)
			fmt.Printf("  teacher    %.2f\n", stats.AverageTeacher)
			return nil
		},
	}

	cmd.Flags().Int64Var(&courseID, "course-id", 0, "course ID to recompute")
	_ = cmd.MarkFlagRequired("course-id")
	return cmd
}

func searchCmd() *cobra.Command {
	var q model.SearchQuery
	var requirements []string
	var tagMatch, sortBy string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the catalog with filters, sorting, and pagination",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			e, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			for _, code := range requirements {
				req, ok := model.ParseRequirement(code)
				if !ok {
					return fmt.Errorf("unknown requirement code %q", code)
				}
				q.Requirements = append(q.Requirements, req)
			}
			q.TagMatch = model.TagMatchPolicy(tagMatch)
			q.SortBy = model.SortKey(sortBy)

			svc := service.NewSearchService(e.courses, e.log)
			page, total, err := svc.Search(ctx, q)
			if err != nil {
				return err
			}

			for _, c := range page {
				fmt.Printf("%-16s %-50s %d review(s), overall %.2f\n",
					c.Display(), c.Title, c.TotalReviews, c.AverageOverall)
			}
			fmt.Printf("%d of %d matching course(s)\n", len(page), total)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&q.Institutions, "institution", nil, "institution codes to include")
	cmd.Flags().StringSliceVar(&q.Departments, "department", nil, "departments to include")
	cmd.Flags().StringSliceVar(&requirements, "requirement", nil, "requirement tag codes")
	cmd.Flags().StringVar(&tagMatch, "match", "", "requirement match policy: all|any (default all)")
	cmd.Flags().IntVar(&q.MinCourseCode, "min-code", 0, "minimum numeric course code")
	cmd.Flags().BoolVar(&q.NoPrereqsOnly, "no-prereqs", false, "only courses without prerequisites")
	cmd.Flags().Float64Var(&q.MinRating, "min-rating", 0, "minimum overall rating")
	cmd.Flags().Float64Var(&q.MaxDifficulty, "max-difficulty", 0, "maximum average difficulty")
	cmd.Flags().Float64Var(&q.MaxWorkload, "max-workload", 0, "maximum average workload")
	cmd.Flags().Float64Var(&q.MinUsefulness, "min-usefulness", 0, "minimum average usefulness")
	cmd.Flags().Float64Var(&q.MinInterest, "min-interest", 0, "minimum average interest")
	cmd.Flags().Float64Var(&q.MinTeacher, "min-teacher", 0, "minimum average teacher rating")
	cmd.Flags().IntVar(&q.MinReviews, "min-reviews", 0, "minimum review count")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort key: byCourseCode|byRating|byReviews")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "pagination offset")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "page size (default 20)")
	return cmd
}

func directoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "directory [institution]",
		Short: "List institutions, or the departments of one institution",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			e, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			svc, err := e.directoryService(ctx)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				institutions, err := svc.Institutions(ctx)
				if err != nil {
					return err
				}
				for _, inst := range institutions {
					fmt.Println(inst)
				}
				return nil
			}

			departments, err := svc.Departments(ctx, args[0])
			if err != nil {
				return err
			}
			for _, dept := range departments {
				fmt.Println(dept)
			}
			return nil
		},
	}
}

func requirementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requirements",
		Short: "List the requirement tag reference table",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, info := range model.AllRequirements() {
				fmt.Printf("%-4s %-50s needs %d  (%s)\n", info.Code, info.Name, info.Count, info.Category)
			}
			return nil
		},
	}
}
