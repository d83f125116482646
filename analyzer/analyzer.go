// Package analyzer extracts structured metadata from parsed post text:
// which AI model the post is about, which homework it covers, how the
// model fared, and which failure modes the author mentions. Everything is
// table-driven string matching; a post with no hits gets "Unknown".
package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ed-digest/models"
)

// Outcome classes.
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
	OutcomeUnknown = "unknown"
)

const Unknown = "Unknown"

type modelPattern struct {
	re   *regexp.Regexp
	name string
}

// modelPatterns is ordered: first hit wins, so the more specific patterns
// come before the generic vendor names.
var modelPatterns = []modelPattern{
	{regexp.MustCompile(`(?i)claude[\s\-]*code`), "Claude Code"},
	{regexp.MustCompile(`(?i)chatgpt[\s\-]*o?[1-5]?(?:[\s\-]*(?:mini|pro|plus|thinking))?`), "ChatGPT"},
	{regexp.MustCompile(`(?i)\bgpt[\s\-]*[3-5][\.\d]*(?:[\s\-]*(?:o|mini|turbo|thinking))?`), "GPT"},
	{regexp.MustCompile(`(?i)\bo[134](?:[\s\-]*(?:mini|pro|preview))?\b`), "OpenAI o-series"},
	{regexp.MustCompile(`(?i)claude|sonnet|opus|haiku|anthropic`), "Claude"},
	{regexp.MustCompile(`(?i)gemini|bard|google[\s\-]*ai[\s\-]*studio`), "Gemini"},
	{regexp.MustCompile(`(?i)deep[\s\-]*seek`), "DeepSeek"},
	{regexp.MustCompile(`(?i)cursor|composer`), "Cursor"},
	{regexp.MustCompile(`(?i)windsurf`), "Windsurf"},
	{regexp.MustCompile(`(?i)codex`), "Codex"},
	{regexp.MustCompile(`(?i)qwen`), "Qwen"},
	{regexp.MustCompile(`(?i)copilot`), "Copilot"},
	{regexp.MustCompile(`(?i)\bgrok`), "Grok"},
	{regexp.MustCompile(`(?i)llama|meta[\s\-]*ai`), "Llama"},
	{regexp.MustCompile(`(?i)mistral|mixtral|codestral|le[\s\-]*chat`), "Mistral"},
	{regexp.MustCompile(`(?i)perplexity`), "Perplexity"},
	{regexp.MustCompile(`(?i)\baider\b`), "Aider"},
	{regexp.MustCompile(`(?i)\bcline\b`), "Cline"},
	{regexp.MustCompile(`(?i)replit`), "Replit"},
	{regexp.MustCompile(`(?i)openai`), "OpenAI"},
}

var hwPattern = regexp.MustCompile(`(?i)\b(?:hw|homework)[\s\-_]*0*(\d+)`)

// ExtractModel returns the canonical model name mentioned in the title or
// body, or Unknown.
func ExtractModel(title, text string) string {
	haystack := title + " " + text
	for _, p := range modelPatterns {
		if p.re.MatchString(haystack) {
			return p.name
		}
	}
	return Unknown
}

// ExtractHomework returns "HWn" for the first homework reference found, or
// Unknown.
func ExtractHomework(title, text string) string {
	m := hwPattern.FindStringSubmatch(title + " " + text)
	if m == nil {
		return Unknown
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Unknown
	}
	return fmt.Sprintf("HW%d", n)
}

var successIndicators = []string{
	"one-shot", "one shot", "correctly", "succeeded", "worked well",
	"was able to", "impressive", "correct answer", "passed all tests",
	"zero-shot", "nailed", "spot on", "performed well",
}

var failureIndicators = []string{
	"failed", "struggled", "incorrect", "wrong", "error", "bug",
	"did not work", "couldn't", "unable to", "mistake",
}

var partialIndicators = []string{
	"eventually", "after", "with some", "needed help", "required",
	"with guidance", "minor", "mostly",
}

// ClassifyOutcome decides success/partial/failed/unknown by counting
// indicator phrases. Failure mentions outnumbering success mentions reads
// as failed; failure plus hedging reads as partial.
func ClassifyOutcome(text string) string {
	lower := strings.ToLower(text)

	count := func(indicators []string) int {
		n := 0
		for _, ind := range indicators {
			if strings.Contains(lower, ind) {
				n++
			}
		}
		return n
	}

	successCount := count(successIndicators)
	failureCount := count(failureIndicators)
	partialCount := count(partialIndicators)

	switch {
	case failureCount > successCount:
		return OutcomeFailed
	case partialCount > 0 && failureCount > 0:
		return OutcomePartial
	case successCount > 0:
		return OutcomeSuccess
	default:
		return OutcomeUnknown
	}
}

type failureMode struct {
	id       string
	keywords []string
}

// failureModes is ordered so ExtractFailureModes output is deterministic.
var failureModes = []failureMode{
	{"hallucination", []string{"hallucinate", "hallucination", "made up", "fabricate", "incorrect fact"}},
	{"context_loss", []string{"lost context", "forgot", "context window", "lost track", "context limit"}},
	{"wrong_algorithm", []string{"wrong algorithm", "misunderstood", "wrong approach", "misinterpreted"}},
	{"syntax_error", []string{"syntax error", "syntactically incorrect", "typo", "missing bracket"}},
	{"api_confusion", []string{"wrong api", "api confusion", "wrong function", "wrong library", "imported function"}},
	{"off_topic", []string{"off topic", "unrelated", "tangent", "missed the point"}},
	{"incomplete", []string{"incomplete", "unfinished", "partial", "missing part"}},
	{"overcomplicated", []string{"overcomplicated", "over-engineered", "too complex", "unnecessarily complex"}},
	{"wrong_dimensions", []string{"wrong dimension", "shape error", "dimension mismatch", "broadcasting"}},
	{"numerical_error", []string{"numerical error", "precision", "floating point", "numerical instability"}},
}

// FailureModeLabels maps failure mode ids to display names.
var FailureModeLabels = map[string]string{
	"hallucination":    "Hallucination",
	"context_loss":     "Context Loss",
	"wrong_algorithm":  "Wrong Algorithm",
	"syntax_error":     "Syntax Error",
	"api_confusion":    "API Confusion",
	"off_topic":        "Off Topic",
	"incomplete":       "Incomplete",
	"overcomplicated":  "Overcomplicated",
	"wrong_dimensions": "Dimension Errors",
	"numerical_error":  "Numerical Errors",
}

// ExtractFailureModes lists each failure mode mentioned in the text, at
// most once per mode, in table order.
func ExtractFailureModes(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, fm := range failureModes {
		for _, kw := range fm.keywords {
			if strings.Contains(lower, kw) {
				found = append(found, fm.id)
				break
			}
		}
	}
	return found
}

// Analyze fills the analyzer-derived fields of a post in place.
func Analyze(post *models.ParsedPost) {
	post.Model = ExtractModel(post.Title, post.Text)
	post.Homework = ExtractHomework(post.Title, post.Text)
	post.Outcome = ClassifyOutcome(post.Text)
	post.FailureModes = ExtractFailureModes(post.Text)
}

// Aggregate builds per-model and per-homework outcome totals plus failure
// mode counts over all posts.
func Aggregate(posts []models.ParsedPost) models.SiteStats {
	stats := models.SiteStats{
		ModelStats:       make(map[string]*models.OutcomeStats),
		HomeworkStats:    make(map[string]*models.OutcomeStats),
		FailureModeCount: make(map[string]int),
	}

	bump := func(m map[string]*models.OutcomeStats, key, outcome string) {
		st := m[key]
		if st == nil {
			st = &models.OutcomeStats{}
			m[key] = st
		}
		st.Total++
		switch outcome {
		case OutcomeSuccess:
			st.Success++
		case OutcomePartial:
			st.Partial++
		case OutcomeFailed:
			st.Failed++
		default:
			st.Unknown++
		}
	}

	for _, p := range posts {
		bump(stats.ModelStats, p.Model, p.Outcome)
		bump(stats.HomeworkStats, p.Homework, p.Outcome)
		for _, fm := range p.FailureModes {
			stats.FailureModeCount[fm]++
		}
	}
	return stats
}
