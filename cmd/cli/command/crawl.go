package command

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studytour/internal/cache"
	"studytour/internal/events"
	"studytour/internal/ingestion/crawler"
	"studytour/internal/microservices/http-api/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	seedsFile string
	discover  bool
	maxDepth  int
)

var crawlCmd = &cobra.Command{
	Use:   "crawl [urls...]",
	Short: "Crawl program sites and store new campsites",
	Long: `Fetch each URL, extract a campsite from relevant pages and store it with
source "crawler". Without arguments the seeds from --seeds (or the built-in
list) are crawled. With --discover, links found on each URL are crawled too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		path := seedsFile
		if path == "" {
			path = e.cfg.CrawlerSeedsFile
		}
		ccfg, err := crawler.LoadConfig(path)
		if err != nil {
			return err
		}
		ccfg.Workers = e.cfg.CrawlerWorkers
		ccfg.Delay = e.cfg.CrawlerDelay
		ccfg.Timeout = e.cfg.CrawlerTimeout
		ccfg.UserAgent = e.cfg.CrawlerUserAgent
		if maxDepth > 0 {
			ccfg.MaxDepth = maxDepth
		}

		var publisher events.Publisher = events.Noop{}
		if e.cfg.RabbitMQURL != "" {
			rp, err := events.NewRabbitPublisher(e.cfg.RabbitMQURL)
			if err != nil {
				e.logger.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
			} else {
				defer func() { _ = rp.Close() }()
				publisher = rp
			}
		}

		log := e.logger.Named("crawler")
		client := crawler.NewClient(ccfg, log)
		svc := crawler.NewService(ccfg, client, repository.NewCampsiteRepository(e.db), publisher, log)

		urls := args
		if discover {
			urls = discoverAll(ctx, svc, args, ccfg)
		}

		summary := svc.Run(ctx, urls)
		printSummary(cmd, summary)

		if summary.Successful > 0 && e.cfg.RedisURL != "" {
			// ctx may already be cancelled by a signal
			rdb, err := cache.NewRedisClient(cmd.Context(), e.cfg.RedisURL, e.cfg.RedisPassword)
			if err != nil {
				e.logger.Warn("redis unavailable, country list refreshes on expiry", zap.Error(err))
				return nil
			}
			defer func() { _ = rdb.Close() }()
			c := cache.NewRedisCache(rdb, e.cfg.CacheDuration())
			if err := forgetCountries(cmd.Context(), c, summary); err != nil {
				e.logger.Warn("drop cached countries", zap.Error(err))
			}
		}
		return nil
	},
}

func init() {
	crawlCmd.Flags().StringVar(&seedsFile, "seeds", "", "YAML seeds file (defaults to CRAWLER_SEEDS_FILE)")
	crawlCmd.Flags().BoolVar(&discover, "discover", false, "follow relevant links from each URL")
	crawlCmd.Flags().IntVar(&maxDepth, "depth", 0, "link depth for --discover")
}

// discoverAll returns the roots plus every relevant link found below them.
func discoverAll(ctx context.Context, svc *crawler.Service, roots []string, cfg crawler.Config) []string {
	if len(roots) == 0 {
		roots = cfg.Seeds
	}
	seen := make(map[string]bool)
	var out []string
	add := func(u string) {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	for _, root := range roots {
		add(root)
		for _, u := range svc.Discover(ctx, root, cfg.MaxDepth) {
			add(u)
		}
	}
	return out
}

// forgetCountries drops the cached country list once a crawl has stored at
// least one campsite.
func forgetCountries(ctx context.Context, c cache.Cache, s crawler.Summary) error {
	if s.Successful == 0 {
		return nil
	}
	return c.Delete(ctx, cache.CountriesKey)
}

func printSummary(cmd *cobra.Command, s crawler.Summary) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Crawl finished:")
	fmt.Fprintf(w, "  URLs:        %d\n", s.Total)
	fmt.Fprintf(w, "  Successful:  %d (%.1f%%)\n", s.Successful, s.SuccessRate)
	fmt.Fprintf(w, "  Failed:      %d\n", s.Failed)
	fmt.Fprintf(w, "  Duration:    %s\n", s.Duration.Round(time.Millisecond))
	for _, r := range s.Results {
		if r.Success {
			fmt.Fprintf(w, "  ✓ %s -> %s\n", r.URL, r.CampsiteID)
		} else {
			fmt.Fprintf(w, "  ✗ %s (%s)\n", r.URL, r.Error)
		}
	}
}
