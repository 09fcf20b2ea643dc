package airbnb

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"airbnb-reviews/models"
)

// Rule is one extraction rule: a selector picks the first candidate
// element and Project turns it into a value. An empty value is a miss.
type Rule struct {
	Selector string
	Project  func(*goquery.Selection) string
}

// Apply runs the rule against a document.
func (r Rule) Apply(doc *goquery.Document) (string, bool) {
	sel := doc.Find(r.Selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	project := r.Project
	if project == nil {
		project = trimmedText
	}
	v := project(sel)
	return v, v != ""
}

// FirstMatch returns the value of the first rule that matches.
func FirstMatch(doc *goquery.Document, rules []Rule) (string, bool) {
	for _, r := range rules {
		if v, ok := r.Apply(doc); ok {
			return v, true
		}
	}
	return "", false
}

// TitleRules resolve the listing title. The document <title> is the last
// resort because it carries site branding.
var TitleRules = []Rule{
	{Selector: "h1"},
	{Selector: `[data-section-id="HERO_DEFAULT"] h1`},
	{Selector: ".title h1"},
	{Selector: ".listing-title"},
	{Selector: "title", Project: func(s *goquery.Selection) string { return CleanPageTitle(s.Text()) }},
}

// LocationRules resolve the listing location.
var LocationRules = []Rule{
	{Selector: `[data-section-id="LOCATION_DEFAULT"] button`},
	{Selector: ".location button"},
	{Selector: `[data-testid="location"]`},
	{Selector: ".address"},
}

// reviewsSection is the container the page keeps guest reviews in.
const reviewsSection = `[data-section-id="REVIEWS_DEFAULT"]`

// SectionReviewSelectors are scanned, relative to the reviews section, when
// the page has one. Nothing outside the section is considered then.
var SectionReviewSelectors = []string{"span", "p", "div"}

// ReviewSelectors are scanned in order over the whole page when it has no
// reviews section.
var ReviewSelectors = []string{
	".reviews span",
	".reviews p",
	".review-text",
	`[data-testid="review-text"]`,
	`[data-testid="review"] span`,
	`[data-testid="review"] p`,
	`span[dir="ltr"]`,
	`div[role="article"] span`,
	`div[role="article"] p`,
}

// ExtractMetadata resolves title and location, using the sentinels for misses.
func ExtractMetadata(doc *goquery.Document) models.ListingMetadata {
	meta := models.UnknownMetadata()
	if v, ok := FirstMatch(doc, TitleRules); ok {
		meta.Title = v
	}
	if v, ok := FirstMatch(doc, LocationRules); ok {
		meta.Location = v
	}
	return meta
}

// hasReviewsSection reports whether doc carries a reviews container.
func hasReviewsSection(doc *goquery.Document) bool {
	return doc.Find(reviewsSection).Length() > 0
}

// extractReviews scans for candidate review text and feeds it to c. The scan
// is confined to the reviews section when present.
func extractReviews(doc *goquery.Document, c *collector, sourceURL string) {
	root, selectors := doc.Selection, ReviewSelectors
	if section := doc.Find(reviewsSection); section.Length() > 0 {
		root, selectors = section, SectionReviewSelectors
	}
	for _, selector := range selectors {
		root.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			c.offer(s.Text(), sourceURL)
			return !c.full()
		})
		if c.full() {
			return
		}
	}
}

// CleanPageTitle strips the site suffix from a document title.
func CleanPageTitle(title string) string {
	title = html.UnescapeString(strings.TrimSpace(title))
	for _, sep := range []string{" - ", " | "} {
		if head, _, found := strings.Cut(title, sep); found && strings.TrimSpace(head) != "" {
			title = head
		}
	}
	return strings.TrimSpace(title)
}

func trimmedText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

func parseDocument(markup string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}
