// Package gateway implements the single network-facing ingress: route
// matching, auth gating, path rewriting, forwarding and failure translation.
package gateway

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sonalikodikara/cloudretail/internal/config"
)

// Rule maps an inbound path prefix to an owning service. The table is built
// once at startup and immutable afterward.
type Rule struct {
	// Prefix is the gateway-facing path prefix, e.g. "/products".
	Prefix string `yaml:"prefix"`
	// Target is the base URL of the owning service.
	Target string `yaml:"target"`
	// Rewrite replaces the matched prefix before forwarding, e.g. "/api".
	Rewrite string `yaml:"rewrite"`
	// AuthRequired gates the route on bearer-credential presence.
	AuthRequired bool `yaml:"auth_required"`
}

// RewritePath strips the matched prefix and prepends the rewrite target, so
// the downstream service never observes the gateway-facing prefix.
func (r *Rule) RewritePath(path string) string {
	rest := strings.TrimPrefix(path, r.Prefix)
	if rest != "" && !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return r.Rewrite + rest
}

// Table is the immutable route table, matched by longest prefix.
type Table struct {
	rules []Rule
}

// NewTable builds a table; rules are ordered longest-prefix-first so Match
// can return the first hit.
func NewTable(rules []Rule) *Table {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &Table{rules: sorted}
}

// Match returns the rule owning path, by longest-prefix match.
func (t *Table) Match(path string) (*Rule, bool) {
	for i := range t.rules {
		r := &t.rules[i]
		if path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/") {
			return r, true
		}
	}
	return nil, false
}

// Rules returns a copy of the configured rules.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// DefaultRules builds the built-in route table from the service base URLs.
// Login is the only public surface; everything else requires a bearer token.
func DefaultRules(cfg *config.Gateway) []Rule {
	return []Rule{
		{Prefix: "/auth", Target: cfg.UserServiceURL, Rewrite: "/api", AuthRequired: false},
		{Prefix: "/users", Target: cfg.UserServiceURL, Rewrite: "/api", AuthRequired: true},
		{Prefix: "/products", Target: cfg.ProductServiceURL, Rewrite: "/api", AuthRequired: true},
		{Prefix: "/orders", Target: cfg.OrderServiceURL, Rewrite: "/api", AuthRequired: true},
		{Prefix: "/notifications", Target: cfg.NotificationServiceURL, Rewrite: "/api", AuthRequired: true},
	}
}

// LoadRules reads a route table from a YAML file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routes file: %w", err)
	}

	var doc struct {
		Routes []Rule `yaml:"routes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse routes file: %w", err)
	}

	for _, r := range doc.Routes {
		if r.Prefix == "" || r.Target == "" {
			return nil, fmt.Errorf("route %+v: prefix and target are required", r)
		}
	}

	return doc.Routes, nil
}

// RulesFor returns the route table for the given configuration, preferring
// the routes file when one is configured.
func RulesFor(cfg *config.Gateway) ([]Rule, error) {
	if cfg.RoutesFile == "" {
		return DefaultRules(cfg), nil
	}
	return LoadRules(cfg.RoutesFile)
}
