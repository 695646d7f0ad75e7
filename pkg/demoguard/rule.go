package demoguard

import (
	"errors"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule allow-lists one write operation in demo mode. PathPattern supports
// chi-style placeholder segments: "/assessment-cases/{id}" matches any
// single non-empty segment in the {id} position.
type Rule struct {
	Method      string `yaml:"method"`
	PathPattern string `yaml:"path"`

	// Pin marks operations whose body tenant fields are overwritten to the
	// demo tenant instead of being validated. Used for assessment-case
	// create/update, where client payloads are routinely wrong.
	Pin bool `yaml:"pin"`
}

// Matches reports whether the rule covers the method and path.
func (rule Rule) Matches(method, path string) bool {
	if !strings.EqualFold(rule.Method, method) {
		return false
	}
	return matchSegments(rule.PathPattern, path)
}

func matchSegments(pattern, path string) bool {
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	if len(patternParts) != len(pathParts) {
		return false
	}

	for i, part := range patternParts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			if pathParts[i] == "" {
				return false
			}
			continue
		}
		if part != pathParts[i] {
			return false
		}
	}

	return true
}

// AllowList is the set of write operations permitted in demo mode.
type AllowList []Rule

// Find returns the first matching rule for the request.
func (l AllowList) Find(r *http.Request) (Rule, bool) {
	for _, rule := range l {
		if rule.Matches(r.Method, r.URL.Path) {
			return rule, true
		}
	}
	return Rule{}, false
}

// ErrInvalidAllowList indicates a malformed allow-list document.
var ErrInvalidAllowList = errors.New("demoguard.invalid_allow_list")

type allowListDoc struct {
	Rules []Rule `yaml:"rules"`
}

// ParseAllowList loads an allow-list from YAML:
//
//	rules:
//	  - method: POST
//	    path: /assessment-cases
//	    pin: true
//	  - method: POST
//	    path: /auth/login
func ParseAllowList(data []byte) (AllowList, error) {
	var doc allowListDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrInvalidAllowList, err)
	}

	for _, rule := range doc.Rules {
		if rule.Method == "" || rule.PathPattern == "" {
			return nil, ErrInvalidAllowList
		}
	}

	return AllowList(doc.Rules), nil
}

// DefaultAllowList covers the operations a demo walkthrough needs: sign in
// and out, and create or update assessment cases pinned to the demo tenant.
func DefaultAllowList() AllowList {
	return AllowList{
		{Method: http.MethodPost, PathPattern: "/auth/login"},
		{Method: http.MethodPost, PathPattern: "/auth/logout"},
		{Method: http.MethodPost, PathPattern: "/assessment-cases", Pin: true},
		{Method: http.MethodPut, PathPattern: "/assessment-cases/{id}", Pin: true},
		{Method: http.MethodPost, PathPattern: "/assessment-cases/{id}/reports", Pin: true},
		{Method: http.MethodPost, PathPattern: "/modules/{module}/assessment-cases", Pin: true},
		{Method: http.MethodPut, PathPattern: "/modules/{module}/assessment-cases/{id}", Pin: true},
		{Method: http.MethodPost, PathPattern: "/modules/{module}/assessment-cases/{id}/reports", Pin: true},
	}
}
