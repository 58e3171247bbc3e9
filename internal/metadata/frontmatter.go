package metadata

import (
	"bufio"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// createdKeys are checked in order; the first parseable value wins.
var createdKeys = []string{"created", "date created", "created_at", "creation_date", "date"}

var frontmatterLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FrontmatterExtractor reads a creation time from a markdown note's YAML
// frontmatter block.
type FrontmatterExtractor struct{}

func NewFrontmatterExtractor() *FrontmatterExtractor {
	return &FrontmatterExtractor{}
}

func (e *FrontmatterExtractor) Extract(r io.Reader) Result {
	block, ok, err := readFrontmatter(r)
	if err != nil {
		return Result{Error: "failed to read note: " + err.Error()}
	}
	if !ok {
		return Result{Error: "no frontmatter"}
	}

	var fields map[string]interface{}
	if err := yaml.Unmarshal([]byte(block), &fields); err != nil {
		return Result{Error: "failed to parse frontmatter: " + err.Error()}
	}

	for _, key := range createdKeys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if t, ok := toTime(raw); ok {
			return Result{
				CreatedAt: &t,
				Source:    "Frontmatter:" + key,
			}
		}
	}

	return Result{Error: "created not found in frontmatter"}
}

func readFrontmatter(r io.Reader) (string, bool, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return "", false, sc.Err()
	}
	if strings.TrimRight(sc.Text(), " \t\r") != "---" {
		return "", false, nil
	}

	var b strings.Builder
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimRight(line, " \t\r") == "---" {
			return b.String(), true, nil
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return "", false, sc.Err()
}

func toTime(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range frontmatterLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
