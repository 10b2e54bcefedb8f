package catalog

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/erazemk/katalog/internal/model"
)

// Tokenize splits a display name on whitespace and drops tokens of a single
// character, which are mostly separators like "-".
func Tokenize(name string) []string {
	var tokens []string
	for _, tok := range strings.Fields(name) {
		if utf8.RuneCountInString(tok) > 1 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Matcher decides whether a product is related to a target product: any
// name token appears in the candidate's name (case-insensitive), or the
// categories are equal. The target itself never matches.
type Matcher struct {
	exclude  string
	category string
	tokens   []string
	pattern  *regexp.Regexp
}

// NewMatcher builds the related-item predicate for target.
func NewMatcher(target *model.Product) *Matcher {
	m := &Matcher{
		exclude:  target.ID,
		category: target.Category,
		tokens:   Tokenize(target.Name),
	}
	if len(m.tokens) > 0 {
		quoted := make([]string, len(m.tokens))
		for i, tok := range m.tokens {
			quoted[i] = regexp.QuoteMeta(tok)
		}
		m.pattern = regexp.MustCompile("(?i)" + strings.Join(quoted, "|"))
	}
	return m
}

// Tokens returns the name tokens the matcher searches for.
func (m *Matcher) Tokens() []string { return m.tokens }

// MatchesAll reports whether the name branch accepts every name. This
// happens when the target's name has no usable tokens, in which case every
// other product is related.
func (m *Matcher) MatchesAll() bool { return m.pattern == nil }

// Match reports whether p is related to the target.
func (m *Matcher) Match(p *model.Product) bool {
	if p.ID == m.exclude {
		return false
	}
	return m.matchName(p.Name) || p.Category == m.category
}

func (m *Matcher) matchName(name string) bool {
	if m.pattern == nil {
		return true
	}
	return m.pattern.MatchString(name)
}

// FindRelated returns the candidates related to target, in candidate order.
func FindRelated(target *model.Product, candidates []model.Product) []model.Product {
	return NewMatcher(target).Filter(candidates)
}

// Filter returns the matching candidates, preserving their order.
func (m *Matcher) Filter(candidates []model.Product) []model.Product {
	related := []model.Product{}
	for i := range candidates {
		if m.Match(&candidates[i]) {
			related = append(related, candidates[i])
		}
	}
	return related
}
