// Package policy decides how every inbound request is gated before any
// handler runs: exempt, public for reads, or protected by a session token.
package policy

import (
	"net/http"
	"strings"
)

// Disposition is the policy outcome assigned to a request.
type Disposition int

const (
	// Exempt requests pass through untouched.
	Exempt Disposition = iota
	// PublicRead requests pass through for GET only; any other method on the
	// same prefix falls through to the protected check.
	PublicRead
	// ProtectedDefault requests require a valid, unexpired session token.
	ProtectedDefault
)

func (d Disposition) String() string {
	switch d {
	case Exempt:
		return "exempt"
	case PublicRead:
		return "public_read"
	default:
		return "protected"
	}
}

// Rule maps a path prefix and method set to a disposition. A nil method set
// matches every method.
type Rule struct {
	PathPrefix  string
	Methods     []string
	Disposition Disposition
}

func (r Rule) matches(path, method string) bool {
	if !strings.HasPrefix(path, r.PathPrefix) {
		return false
	}
	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// DefaultRules is the rule table for the API surface: auth endpoints and the
// public contact form are exempt, content listings are publicly readable, and
// everything else under the namespace requires a session.
func DefaultRules() []Rule {
	return []Rule{
		{PathPrefix: "/api/auth/", Disposition: Exempt},
		{PathPrefix: "/api/contact", Disposition: Exempt},
		{PathPrefix: "/api/blog", Methods: []string{http.MethodGet}, Disposition: PublicRead},
		{PathPrefix: "/api/project", Methods: []string{http.MethodGet}, Disposition: PublicRead},
		{PathPrefix: "/api/profile", Methods: []string{http.MethodGet}, Disposition: PublicRead},
	}
}

// Engine classifies requests against an ordered rule set. It is immutable
// after construction and safe for concurrent use; evaluation is a pure scan
// with no I/O.
type Engine struct {
	namespace string
	rules     []Rule
}

// NewEngine builds an engine for the protected namespace prefix. Rules are
// evaluated in order, first match wins; anything under the namespace with no
// matching rule is ProtectedDefault, anything outside it is untouched.
func NewEngine(namespace string, rules []Rule) *Engine {
	if namespace == "" {
		namespace = "/api/"
	}
	owned := make([]Rule, len(rules))
	copy(owned, rules)
	return &Engine{namespace: namespace, rules: owned}
}

// Classify resolves the disposition for a (path, method) pair. Evaluation is
// total: every pair resolves to exactly one disposition.
func (e *Engine) Classify(path, method string) Disposition {
	for _, rule := range e.rules {
		if rule.matches(path, method) {
			return rule.Disposition
		}
	}
	if strings.HasPrefix(path, e.namespace) {
		return ProtectedDefault
	}
	return Exempt
}
