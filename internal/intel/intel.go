package intel

import (
	"regexp"
	"sort"
	"strings"
)

// Extraction is shape-only and recall-oriented: no checksum or Luhn-style
// validation happens here. Bare digit runs in particular are a loose
// account-number heuristic with a known false-positive rate against phone
// numbers; downstream consumers treat them as leads, not verified artifacts.
var (
	phonePattern = regexp.MustCompile(`\+?\d{10,}|\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)
	// Narrower than an email matcher on purpose: the provider part must be
	// purely alphabetic (no dot-domain), matching regional payment-handle
	// conventions like name@paytm or shop@ybl.
	upiPattern = regexp.MustCompile(`\b[a-zA-Z0-9._-]+@[a-zA-Z]+\b`)
	// URLPattern captures the full link including path and query; the path is
	// often the identifying part of a phishing URL. Exported so the scorer's
	// URL bonus uses the same notion of a link as extraction.
	URLPattern  = regexp.MustCompile(`https?://[a-zA-Z0-9._~%/?#@&+=!*(),$:-]+`)
	wwwPattern  = regexp.MustCompile(`\bwww\.[a-zA-Z0-9._~%/?#@&+=-]+`)
	bankPattern = regexp.MustCompile(`\b\d{9,18}\b`)
	ifscPattern = regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`)

	phoneSeparators = strings.NewReplacer("+", "", "-", "", ".", "", " ", "")
)

// Set is a deduplicated collection of normalized artifact strings.
type Set map[string]struct{}

func (s Set) Add(v string) {
	s[v] = struct{}{}
}

func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Values returns the entries in sorted order for stable output.
func (s Set) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s Set) union(other Set) {
	for v := range other {
		s[v] = struct{}{}
	}
}

// Bundle holds the deduplicated artifacts harvested from a correspondent.
// All families are always non-nil; an unmatched family is an empty set.
type Bundle struct {
	PhoneNumbers Set
	UPIIDs       Set
	PhishingURLs Set
	BankAccounts Set
	Keywords     Set
}

func NewBundle() *Bundle {
	return &Bundle{
		PhoneNumbers: make(Set),
		UPIIDs:       make(Set),
		PhishingURLs: make(Set),
		BankAccounts: make(Set),
		Keywords:     make(Set),
	}
}

// Merge unions the other bundle into this one, field by field. Entries are
// already normalized, so the union is the whole dedup story.
func (b *Bundle) Merge(other *Bundle) {
	if other == nil {
		return
	}
	b.PhoneNumbers.union(other.PhoneNumbers)
	b.UPIIDs.union(other.UPIIDs)
	b.PhishingURLs.union(other.PhishingURLs)
	b.BankAccounts.union(other.BankAccounts)
	b.Keywords.union(other.Keywords)
}

// Extract pulls structured artifacts out of a single message. Each family is
// matched independently and deduplicated within the call by its normalized
// string form.
func Extract(message string) *Bundle {
	b := NewBundle()

	for _, m := range phonePattern.FindAllString(message, -1) {
		b.PhoneNumbers.Add(normalizePhone(m))
	}

	for _, m := range upiPattern.FindAllString(message, -1) {
		b.UPIIDs.Add(strings.ToLower(m))
	}

	for _, m := range URLPattern.FindAllString(message, -1) {
		b.PhishingURLs.Add(strings.ToLower(m))
	}
	for _, m := range wwwPattern.FindAllString(message, -1) {
		b.PhishingURLs.Add(strings.ToLower(m))
	}

	for _, m := range bankPattern.FindAllString(message, -1) {
		b.BankAccounts.Add(m)
	}
	for _, m := range ifscPattern.FindAllString(message, -1) {
		b.BankAccounts.Add(m)
	}

	return b
}

// normalizePhone strips the leading + and interior separators so the same
// number formatted differently collapses to one entry.
func normalizePhone(phone string) string {
	return phoneSeparators.Replace(phone)
}
