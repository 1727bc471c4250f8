package command

import (
	"fmt"

	"studytour/internal/cache"
	"studytour/internal/microservices/http-api/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Rating maintenance",
}

var ratingsRecomputeCmd = &cobra.Command{
	Use:   "recompute [campsite-id]",
	Short: "Recompute cached average ratings",
	Long: `Rebuild campsites.avg_rating from the ratings table, for one campsite or
for all of them, and drop the cached rating summaries.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		ctx := cmd.Context()

		ratings := repository.NewRatingRepository(e.db)
		campsites := repository.NewCampsiteRepository(e.db)

		var ids []string
		if len(args) == 1 {
			if _, err := campsites.GetByID(ctx, args[0]); err != nil {
				return fmt.Errorf("campsite %s: %w", args[0], err)
			}
			if err := ratings.RecomputeAverage(ctx, args[0]); err != nil {
				return err
			}
			ids = args
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Recomputed rating for %s\n", args[0])
		} else {
			n, err := ratings.RecomputeAll(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Recomputed ratings for %d campsites\n", n)
		}

		dropSummaries(cmd, e, ids)
		return nil
	},
}

func init() {
	ratingsCmd.AddCommand(ratingsRecomputeCmd)
}

// dropSummaries removes cached rating summaries. With no ids every summary
// key is removed.
func dropSummaries(cmd *cobra.Command, e *env, ids []string) {
	if e.cfg.RedisURL == "" {
		return
	}
	rdb, err := cache.NewRedisClient(cmd.Context(), e.cfg.RedisURL, e.cfg.RedisPassword)
	if err != nil {
		e.logger.Warn("redis unavailable, cached summaries expire on their own", zap.Error(err))
		return
	}
	defer func() { _ = rdb.Close() }()

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cache.RatingSummaryKey(id))
	}
	if len(ids) == 0 {
		iter := rdb.Scan(cmd.Context(), 0, cache.RatingSummaryKey("*"), 500).Iterator()
		for iter.Next(cmd.Context()) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			e.logger.Warn("scan rating summaries", zap.Error(err))
			return
		}
	}
	if err := cache.NewRedisCache(rdb, e.cfg.CacheDuration()).Delete(cmd.Context(), keys...); err != nil {
		e.logger.Warn("drop rating summaries", zap.Error(err))
	}
}
