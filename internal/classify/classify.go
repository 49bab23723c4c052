// Package classify derives boolean lead flags from business names and
// category tags via keyword-set membership. Pure string work, no I/O.
package classify

import (
	"regexp"
	"strings"
	"sync"
)

// Flags are the three independent lead indicators. A business can carry any
// combination; the keyword sets are not mutually exclusive.
type Flags struct {
	LikelyDelivery             bool `json:"likely_delivery"`
	PotentialWorldwideShipping bool `json:"potential_worldwide_shipping"`
	IsLogistics                bool `json:"is_logistics"`
}

// Flagger is the boolean-tag contract. The keyword classifier is the only
// implementation shipped; an external model-backed classifier can satisfy the
// same contract.
type Flagger interface {
	Classify(name string, tags []string, hint string) Flags
}

// MatchMode selects how keywords are tested against the input text.
type MatchMode string

const (
	// MatchSubstring tests plain containment, so "shop" matches inside
	// "workshop". Favors recall.
	MatchSubstring MatchMode = "substring"
	// MatchWord tests on word boundaries.
	MatchWord MatchMode = "word"
)

var deliveryKeywords = []string{
	"restaurant", "food", "grocery", "bakery", "pharmacy", "florist",
	"electronics", "clothing", "furniture", "store", "retail", "shop",
	"market", "supermarket", "cafe", "ecommerce", "online",
}

var worldwideKeywords = []string{
	"import", "export", "wholesale", "global", "international",
	"distributor", "shipping", "courier", "couriers", "mailbox",
	"post office", "logistics", "forwarder",
}

var logisticsKeywords = []string{
	"logistics", "freight", "courier", "3pl", "forwarder", "shipping",
	"transport", "fulfillment", "warehouse", "supply chain",
}

// Classifier maps (name, tags, hint) to Flags.
type Classifier struct {
	mode MatchMode

	wordRe   map[string]*regexp.Regexp
	wordOnce sync.Once
}

// New creates a Classifier. An unrecognized mode falls back to substring.
func New(mode MatchMode) *Classifier {
	if mode != MatchWord {
		mode = MatchSubstring
	}
	return &Classifier{mode: mode}
}

// Classify concatenates name, tags, and hint into one lowercase haystack and
// tests each keyword set independently. Deterministic and side-effect free.
func (c *Classifier) Classify(name string, tags []string, hint string) Flags {
	var sb strings.Builder
	sb.WriteString(name)
	for _, t := range tags {
		sb.WriteByte(' ')
		sb.WriteString(t)
	}
	sb.WriteByte(' ')
	sb.WriteString(hint)
	text := strings.ToLower(sb.String())

	return Flags{
		LikelyDelivery:             c.containsAny(text, deliveryKeywords),
		PotentialWorldwideShipping: c.containsAny(text, worldwideKeywords),
		IsLogistics:                c.containsAny(text, logisticsKeywords),
	}
}

func (c *Classifier) containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if c.matches(text, kw) {
			return true
		}
	}
	return false
}

func (c *Classifier) matches(text, keyword string) bool {
	if c.mode == MatchWord {
		return c.wordPattern(keyword).MatchString(text)
	}
	return strings.Contains(text, keyword)
}

// wordPattern compiles and caches the word-boundary regex for a keyword.
// Category tags arrive underscore-joined ("freight_forwarding"), so
// underscores count as separators too.
func (c *Classifier) wordPattern(keyword string) *regexp.Regexp {
	c.wordOnce.Do(func() {
		c.wordRe = make(map[string]*regexp.Regexp)
		all := make([]string, 0, len(deliveryKeywords)+len(worldwideKeywords)+len(logisticsKeywords))
		all = append(all, deliveryKeywords...)
		all = append(all, worldwideKeywords...)
		all = append(all, logisticsKeywords...)
		for _, kw := range all {
			c.wordRe[kw] = regexp.MustCompile(`(?:^|[^a-z0-9])` + regexp.QuoteMeta(kw) + `(?:$|[^a-z0-9])`)
		}
	})
	return c.wordRe[keyword]
}
