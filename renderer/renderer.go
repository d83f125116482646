// Package renderer writes the static site: index.html, a stylesheet and a
// raw JSON export of the parsed posts. Rendering is pure templating over
// the site snapshot; re-running with the same input rewrites identical
// bytes except for the generated-at footer of index.html.
package renderer

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"ed-digest/analyzer"
	"ed-digest/models"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

//go:embed assets/style.css
var styleCSS []byte

// statRow is one table row of the stats section.
type statRow struct {
	Name  string
	Stats *models.OutcomeStats
}

type failureRow struct {
	Label string
	Count int
}

// indexData is the template input for index.html.
type indexData struct {
	CourseID     string
	Pattern      string
	Posts        []models.ParsedPost
	ModelRows    []statRow
	HomeworkRows []statRow
	FailureRows  []failureRow
	GeneratedAt  string
}

var funcMap = template.FuncMap{
	"formatDate": func(p models.ParsedPost) string {
		if p.CreatedAt.IsZero() {
			return "Unknown date"
		}
		return p.CreatedAt.Format("January 2, 2006 at 3:04 PM")
	},
	"excerpt":      Excerpt,
	"failureLabel": failureLabel,
}

var indexTemplate = template.Must(
	template.New("index.html.tmpl").Funcs(funcMap).ParseFS(templateFS, "templates/index.html.tmpl"))

// Excerpt returns the first maxExcerptRunes runes of the body for the
// collapsed post card view.
const maxExcerptRunes = 280

func Excerpt(s string) string {
	rs := []rune(s)
	if len(rs) <= maxExcerptRunes {
		return s
	}
	return string(rs[:maxExcerptRunes]) + "…"
}

func failureLabel(id string) string {
	if label, ok := analyzer.FailureModeLabels[id]; ok {
		return label
	}
	return id
}

// WriteSite renders the site into outputDir, creating it if needed and
// overwriting existing files in full. An empty post list is valid and
// produces an index with zero entries.
func WriteSite(site *models.Site, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	index, err := renderIndex(site)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outputDir, "index.html"), index, 0o644); err != nil {
		return fmt.Errorf("write index.html: %w", err)
	}

	if err := os.WriteFile(filepath.Join(outputDir, "style.css"), styleCSS, 0o644); err != nil {
		return fmt.Errorf("write style.css: %w", err)
	}

	raw, err := json.MarshalIndent(site.Posts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal posts: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "posts.json"), raw, 0o644); err != nil {
		return fmt.Errorf("write posts.json: %w", err)
	}

	return nil
}

func renderIndex(site *models.Site) ([]byte, error) {
	data := indexData{
		CourseID:     site.CourseID,
		Pattern:      site.Pattern,
		Posts:        site.Posts,
		ModelRows:    modelRows(site.Stats.ModelStats),
		HomeworkRows: homeworkRows(site.Stats.HomeworkStats),
		FailureRows:  failureRows(site.Stats.FailureModeCount),
		GeneratedAt:  site.GeneratedAt.Format("January 2, 2006 at 3:04 PM MST"),
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	return buf.Bytes(), nil
}

// modelRows orders models by post count descending, Unknown always last.
func modelRows(stats map[string]*models.OutcomeStats) []statRow {
	var rows []statRow
	for name, st := range stats {
		if name == analyzer.Unknown {
			continue
		}
		rows = append(rows, statRow{Name: name, Stats: st})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Stats.Total != rows[j].Stats.Total {
			return rows[i].Stats.Total > rows[j].Stats.Total
		}
		return rows[i].Name < rows[j].Name
	})
	if st, ok := stats[analyzer.Unknown]; ok {
		rows = append(rows, statRow{Name: analyzer.Unknown, Stats: st})
	}
	return rows
}

var hwNumber = regexp.MustCompile(`\d+`)

// homeworkRows orders homeworks numerically, Unknown last.
func homeworkRows(stats map[string]*models.OutcomeStats) []statRow {
	var rows []statRow
	for name, st := range stats {
		if name == analyzer.Unknown {
			continue
		}
		rows = append(rows, statRow{Name: name, Stats: st})
	}
	sort.Slice(rows, func(i, j int) bool {
		return hwSortKey(rows[i].Name) < hwSortKey(rows[j].Name)
	})
	if st, ok := stats[analyzer.Unknown]; ok {
		rows = append(rows, statRow{Name: analyzer.Unknown, Stats: st})
	}
	return rows
}

func hwSortKey(hw string) int {
	m := hwNumber.FindString(hw)
	if m == "" {
		return 999
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 999
	}
	return n
}

// failureRows orders failure modes by count descending, then label.
func failureRows(counts map[string]int) []failureRow {
	var rows []failureRow
	for id, count := range counts {
		rows = append(rows, failureRow{Label: failureLabel(id), Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Label < rows[j].Label
	})
	return rows
}
