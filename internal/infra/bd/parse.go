package bd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/runoshun/skillbeads/internal/domain"
)

var (
	// createdLineRe matches bd's human output: "✓ Created issue: APP-001".
	createdLineRe = regexp.MustCompile(`Created issue:?\s+([A-Za-z][A-Za-z0-9_]*-[A-Za-z0-9.]+)`)
	// legacyIDRe matches sequential ids such as CFG-001 anywhere in the output.
	legacyIDRe = regexp.MustCompile(`\b([A-Z][A-Z0-9]*-\d+)\b`)
	// listLineRe matches "1. [P2] APP-001: Title" as well as "APP-001 Title".
	listLineRe = regexp.MustCompile(`^\s*(?:\d+\.\s+)?(?:\[P(\d)\]\s+)?([A-Za-z][A-Za-z0-9_]*-[A-Za-z0-9.]+):?\s+(.+?)\s*$`)
)

// parseCreatedID extracts the new issue id from bd create output.
// JSON output is preferred; human-readable output is a fallback for older bd versions.
func parseCreatedID(out []byte) (string, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("empty create output: %w", domain.ErrOutputUnparseable)
	}

	if trimmed[0] == '{' {
		var created struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(trimmed, &created); err == nil && created.ID != "" {
			return created.ID, nil
		}
	}

	if m := createdLineRe.FindSubmatch(trimmed); m != nil {
		return string(m[1]), nil
	}
	if m := legacyIDRe.FindSubmatch(trimmed); m != nil {
		return string(m[1]), nil
	}
	return "", fmt.Errorf("no issue id in create output: %w", domain.ErrOutputUnparseable)
}

// parseIssueList parses bd ready/list output.
// Empty output is an empty list; output that is neither JSON nor issue lines is an error.
func parseIssueList(out []byte) ([]domain.Issue, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return []domain.Issue{}, nil
	}

	if trimmed[0] == '[' {
		var issues []domain.Issue
		if err := json.Unmarshal(trimmed, &issues); err != nil {
			return nil, fmt.Errorf("decode issue list: %v: %w", err, domain.ErrOutputUnparseable)
		}
		if issues == nil {
			issues = []domain.Issue{}
		}
		return issues, nil
	}

	return parseIssueLines(trimmed)
}

// parseIssueLines handles bd's human-readable listing.
func parseIssueLines(out []byte) ([]domain.Issue, error) {
	issues := []domain.Issue{}
	sawContent := false

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		sawContent = true

		m := listLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		issue := domain.Issue{
			ID:       m[2],
			Title:    m[3],
			Priority: domain.DefaultPriority,
		}
		if m[1] != "" {
			issue.Priority, _ = strconv.Atoi(m[1])
		}
		issues = append(issues, issue)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan issue list: %v: %w", err, domain.ErrOutputUnparseable)
	}

	// Headers and "No ready work" banners are fine; only JSON-looking garbage is not.
	if sawContent && len(issues) == 0 && bytes.HasPrefix(out, []byte("{")) {
		return nil, fmt.Errorf("unexpected object output: %w", domain.ErrOutputUnparseable)
	}
	return issues, nil
}
