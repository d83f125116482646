package renderer_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ed-digest/models"
	"ed-digest/renderer"
)

func sampleSite() *models.Site {
	created := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)
	posts := []models.ParsedPost{
		{
			ThreadID:     2,
			Title:        "Special Participation B: Week 2",
			Author:       "Bo",
			CreatedAt:    created.Add(24 * time.Hour),
			Text:         "eventually it worked well, after one error",
			Model:        "Claude",
			Homework:     "HW2",
			Outcome:      "partial",
			FailureModes: []string{"hallucination"},
			CommentCount: 3,
			VoteCount:    5,
		},
		{
			ThreadID:  1,
			Title:     "Special Participation B: Week 1",
			Author:    "Alex",
			CreatedAt: created,
			Text:      "one-shot, passed all tests",
			Model:     "GPT",
			Homework:  "HW1",
			Outcome:   "success",
		},
	}
	return &models.Site{
		CourseID: "84647",
		Pattern:  "special participation b",
		Posts:    posts,
		Stats: models.SiteStats{
			ModelStats: map[string]*models.OutcomeStats{
				"GPT":    {Total: 1, Success: 1},
				"Claude": {Total: 1, Partial: 1},
			},
			HomeworkStats: map[string]*models.OutcomeStats{
				"HW1": {Total: 1, Success: 1},
				"HW2": {Total: 1, Partial: 1},
			},
			FailureModeCount: map[string]int{"hallucination": 1},
		},
		GeneratedAt: time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC),
	}
}

func readFile(t *testing.T, dir, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return b
}

func TestWriteSiteProducesAllFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, renderer.WriteSite(sampleSite(), dir))

	index := string(readFile(t, dir, "index.html"))
	assert.Contains(t, index, "Special Participation B: Week 1")
	assert.Contains(t, index, "Special Participation B: Week 2")
	assert.Contains(t, index, "Alex")
	assert.Contains(t, index, "March 2, 2025")
	assert.Contains(t, index, "Hallucination")
	assert.Contains(t, index, "style.css")

	css := string(readFile(t, dir, "style.css"))
	assert.Contains(t, css, ".post-card")

	var posts []models.ParsedPost
	require.NoError(t, json.Unmarshal(readFile(t, dir, "posts.json"), &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, 2, posts[0].ThreadID)
}

func TestWriteSiteIdempotent(t *testing.T) {
	site := sampleSite()

	dirA := t.TempDir()
	require.NoError(t, renderer.WriteSite(site, dirA))
	dirB := t.TempDir()
	require.NoError(t, renderer.WriteSite(site, dirB))

	for _, name := range []string{"index.html", "style.css", "posts.json"} {
		assert.Equal(t, readFile(t, dirA, name), readFile(t, dirB, name), name)
	}
}

func TestWriteSiteOverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	site := sampleSite()
	require.NoError(t, renderer.WriteSite(site, dir))

	site.Posts = site.Posts[:1]
	require.NoError(t, renderer.WriteSite(site, dir))

	index := string(readFile(t, dir, "index.html"))
	assert.NotContains(t, index, "Special Participation B: Week 1")
}

func TestWriteSiteEmptyPostList(t *testing.T) {
	dir := t.TempDir()
	site := &models.Site{
		CourseID: "84647",
		Pattern:  "special participation b",
		Stats: models.SiteStats{
			ModelStats:       map[string]*models.OutcomeStats{},
			HomeworkStats:    map[string]*models.OutcomeStats{},
			FailureModeCount: map[string]int{},
		},
		GeneratedAt: time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, renderer.WriteSite(site, dir))

	index := string(readFile(t, dir, "index.html"))
	assert.Contains(t, index, "No posts matched the filter.")
}

func TestWriteSiteEscapesUserText(t *testing.T) {
	site := sampleSite()
	site.Posts[0].Title = `<script>alert("x")</script>`
	site.Posts[0].Text = `body with <b>markup</b>`

	dir := t.TempDir()
	require.NoError(t, renderer.WriteSite(site, dir))

	index := string(readFile(t, dir, "index.html"))
	assert.NotContains(t, index, `<script>alert`)
	assert.Contains(t, index, "&lt;script&gt;")
}

func TestExcerptTruncatesLongBodies(t *testing.T) {
	long := make([]rune, 500)
	for i := range long {
		long[i] = 'x'
	}
	got := renderer.Excerpt(string(long))
	assert.Less(t, len([]rune(got)), 300)
	assert.Equal(t, "short", renderer.Excerpt("short"))
}
