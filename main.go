package main

import (
	"context"
	"errors"
	"os"
	"time"

	"ed-digest/analyzer"
	"ed-digest/config"
	"ed-digest/edclient"
	"ed-digest/filter"
	"ed-digest/httpclient"
	"ed-digest/logger"
	"ed-digest/models"
	"ed-digest/parser"
	"ed-digest/renderer"
)

func main() {
	logger.InitFromEnv("LOG_LEVEL")
	if err := run(); err != nil {
		switch {
		case errors.Is(err, config.ErrConfig):
			logger.ErrorWithFields("configuration error", logger.Fields{"error": err.Error()})
		case errors.Is(err, edclient.ErrUnauthorized):
			logger.ErrorWithFields("authentication failed, check ED_API_TOKEN", logger.Fields{"error": err.Error()})
		default:
			logger.ErrorWithFields("run failed", logger.Fields{"error": err.Error()})
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Logging.Level != "" {
		logger.Init(cfg.Logging.Level)
	}

	ctx := context.Background()
	client := edclient.New(edclient.Config{
		Token:    cfg.Token,
		CourseID: cfg.CourseID,
		PageSize: cfg.PageSize,
	}, httpclient.New(httpclient.Config{Timeout: cfg.RequestTimeout()}))

	logger.InfoWithFields("fetching threads", logger.Fields{
		"course_id": cfg.CourseID,
		"filter":    cfg.Filter.Mode + ":" + cfg.Filter.Pattern,
	})
	threads, err := client.ListThreads(ctx)
	if err != nil {
		return err
	}
	logger.InfoWithFields("fetched threads", logger.Fields{"count": len(threads)})

	pred := filter.Predicate{Mode: cfg.Filter.Mode, Pattern: cfg.Filter.Pattern}
	matched := filter.Apply(threads, pred)
	logger.InfoWithFields("filtered threads", logger.Fields{
		"matched": len(matched),
		"total":   len(threads),
	})

	posts := buildPosts(ctx, client, matched)
	filter.SortNewestFirst(posts)

	site := &models.Site{
		CourseID:    cfg.CourseID,
		Pattern:     cfg.Filter.Pattern,
		Posts:       posts,
		Stats:       analyzer.Aggregate(posts),
		GeneratedAt: time.Now(),
	}
	if err := renderer.WriteSite(site, cfg.OutputDir); err != nil {
		return err
	}

	logger.InfoWithFields("site generated", logger.Fields{
		"posts":      len(posts),
		"output_dir": cfg.OutputDir,
	})
	return nil
}

// buildPosts fetches the full record of each matched thread, parses the
// body and runs the analyzer. Failures degrade per post: a detail fetch
// error falls back to the listing snapshot, a body that cannot be parsed
// becomes an empty body. Nothing here aborts the run.
func buildPosts(ctx context.Context, client *edclient.Client, matched []models.Thread) []models.ParsedPost {
	posts := make([]models.ParsedPost, 0, len(matched))
	for _, t := range matched {
		thread := t
		if full, err := client.GetThread(ctx, t.ID); err == nil {
			thread = *full
		} else {
			logger.WarnWithFields("detail fetch failed, using listing snapshot", logger.Fields{
				"thread_id": t.ID,
				"error":     err.Error(),
			})
		}

		text := parser.PostBody(thread.Body())
		if text == "" && thread.Body() != "" {
			logger.WarnWithFields("post body could not be parsed", logger.Fields{
				"thread_id": thread.ID,
			})
		}

		post := models.ParsedPost{
			ThreadID:     thread.ID,
			Title:        thread.Title,
			Author:       thread.AuthorName(),
			CreatedAt:    thread.CreatedAt,
			Text:         text,
			CommentCount: thread.CommentCount,
			VoteCount:    thread.VoteCount,
			Attachments:  thread.Attachments(),
		}
		analyzer.Analyze(&post)
		posts = append(posts, post)
	}
	return posts
}
