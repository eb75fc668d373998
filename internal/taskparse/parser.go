// Package taskparse extracts checkbox tasks and hashtags from Markdown content.
package taskparse

import (
	"regexp"
	"strings"

	"github.com/A11myt/obsidian-task-heatmap/internal/models"
)

var (
	// A task line: optional leading whitespace (tabs included), a list
	// marker, whitespace, then a single-character checkbox body. The
	// first bracket pattern per line wins; a second checkbox on the
	// same line ends up in the trailing text.
	taskRe = regexp.MustCompile(`^\s*[-*]\s+\[([ _xX])\](.*)$`)
	tagRe  = regexp.MustCompile(`#([A-Za-z0-9_-]+)`)
)

// Result holds the output of parsing one document.
type Result struct {
	Tasks   []models.ParsedTask
	AllTags []string
}

// Completed counts the completed tasks in the result.
func (r *Result) Completed() int {
	n := 0
	for _, t := range r.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// Parse scans content line by line for checkbox tasks and extracts
// hashtags both per task and from the whole document, so a standalone
// hashtag outside any task line is still discoverable.
func Parse(content string) *Result {
	res := &Result{
		Tasks:   []models.ParsedTask{},
		AllTags: extractTags(content),
	}

	for i, line := range strings.Split(content, "\n") {
		m := taskRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[2])
		if text == "" {
			text = models.EmptyTaskText
		}
		res.Tasks = append(res.Tasks, models.ParsedTask{
			Text:      text,
			Completed: strings.EqualFold(m[1], "x"),
			Line:      i + 1,
			Tags:      extractTags(m[2]),
		})
	}

	return res
}

// extractTags returns deduplicated tag names in first-seen order.
func extractTags(text string) []string {
	matches := tagRe.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	out := []string{}
	for _, m := range matches {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}
