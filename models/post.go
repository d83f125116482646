package models

import "time"

// ParsedPost is a thread after body parsing and analysis. Derived data,
// discarded once the site is written.
type ParsedPost struct {
	ThreadID     int       `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	CreatedAt    time.Time `json:"created_at"`
	Text         string    `json:"content"`
	Model        string    `json:"model"`
	Homework     string    `json:"homework"`
	Outcome      string    `json:"outcome"`
	FailureModes []string  `json:"failure_modes"`
	CommentCount int       `json:"comment_count"`
	VoteCount    int       `json:"vote_count"`
	Attachments  []File    `json:"attachments,omitempty"`
}

// OutcomeStats counts posts per outcome class for one grouping key.
type OutcomeStats struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Partial int `json:"partial"`
	Failed  int `json:"failed"`
	Unknown int `json:"unknown"`
}

// SiteStats aggregates the analyzer output across all posts.
type SiteStats struct {
	ModelStats       map[string]*OutcomeStats `json:"model_stats"`
	HomeworkStats    map[string]*OutcomeStats `json:"hw_stats"`
	FailureModeCount map[string]int           `json:"failure_mode_stats"`
}

// Site is the full input to the renderer: ordered posts plus aggregates.
type Site struct {
	CourseID    string
	Pattern     string
	Posts       []ParsedPost
	Stats       SiteStats
	GeneratedAt time.Time
}
