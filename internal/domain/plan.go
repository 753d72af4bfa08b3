package domain

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// issueIDRe matches tracker ids such as APP-001 or bd-a3f8.
var issueIDRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*-[A-Za-z0-9.]+$`)

// IsIssueID reports whether s looks like a tracker issue id.
func IsIssueID(s string) bool {
	return issueIDRe.MatchString(s)
}

// Plan is a batch of issues to create together.
type Plan struct {
	Issues []PlanIssue `yaml:"issues"`
}

// PlanIssue is one entry of a plan file.
// DependsOn holds keys of other entries or ids of existing issues.
// Fields are ordered to minimize memory padding.
type PlanIssue struct {
	Priority    *int     `yaml:"priority,omitempty"`
	Key         string   `yaml:"key,omitempty"`
	Title       string   `yaml:"title"`
	Type        string   `yaml:"type,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Labels      []string `yaml:"labels,omitempty"`
	DependsOn   []string `yaml:"depends_on,omitempty"`
}

// ParsePlan decodes and validates a YAML plan.
// Entries without a key get their 1-based position as key.
//
// Format:
//
//	issues:
//	  - key: schema
//	    title: Design schema
//	    priority: 1
//	  - key: api
//	    title: Build API
//	    depends_on: [schema]
func ParsePlan(content []byte) (*Plan, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyPlan
	}

	var plan Plan
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyPlan
		}
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Validate normalizes entries and checks keys, titles, types, priorities and
// dependency references. It never talks to a tracker.
func (p *Plan) Validate() error {
	if len(p.Issues) == 0 {
		return ErrEmptyPlan
	}

	keys := make(map[string]int, len(p.Issues))
	for i := range p.Issues {
		issue := &p.Issues[i]
		issue.Key = strings.TrimSpace(issue.Key)
		if issue.Key == "" {
			issue.Key = strconv.Itoa(i + 1)
		}
		if prev, ok := keys[issue.Key]; ok {
			return fmt.Errorf("issue %d: %q already used by issue %d: %w", i+1, issue.Key, prev, ErrDuplicatePlanKey)
		}
		keys[issue.Key] = i + 1

		issue.Title = strings.TrimSpace(issue.Title)
		if issue.Title == "" {
			return fmt.Errorf("issue %d: %w", i+1, ErrEmptyTitle)
		}
		issueType, err := ParseIssueType(issue.Type)
		if err != nil {
			return fmt.Errorf("issue %d: %w", i+1, err)
		}
		issue.Type = string(issueType)
		if issue.Priority != nil {
			if err := ValidatePriority(*issue.Priority); err != nil {
				return fmt.Errorf("issue %d: %w", i+1, err)
			}
		}
	}

	for i, issue := range p.Issues {
		for _, ref := range issue.DependsOn {
			if ref == issue.Key {
				return fmt.Errorf("issue %d: %w", i+1, ErrSelfDependency)
			}
			if _, ok := keys[ref]; ok || IsIssueID(ref) {
				continue
			}
			return fmt.Errorf("issue %d: depends_on %q: %w", i+1, ref, ErrUnknownPlanKey)
		}
	}
	return nil
}

// HasKey reports whether ref names an entry of the plan.
func (p *Plan) HasKey(ref string) bool {
	for _, issue := range p.Issues {
		if issue.Key == ref {
			return true
		}
	}
	return false
}

// CreateOptions converts an entry into tracker create options.
// Dependencies are declared separately once every entry exists.
func (pi PlanIssue) CreateOptions() CreateIssueOptions {
	return CreateIssueOptions{
		Title:       pi.Title,
		Description: pi.Description,
		Type:        IssueType(pi.Type),
		Priority:    pi.Priority,
		Labels:      pi.Labels,
	}
}
