package scraper

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Source is one institution listing endpoint: a paginated base URL plus the
// institution code used to pick out relevant course anchors on its pages.
type Source struct {
	Code    string
	BaseURL string
}

// DefaultSources returns the built-in institution listing endpoints.
func DefaultSources() []Source {
	return []Source{
		{"CAS", "https://www.bu.edu/academics/cas/courses/"},
		{"KHC", "https://www.bu.edu/academics/khc/courses/"},
		{"HUB", "https://www.bu.edu/academics/hub/courses/"},
		{"MED", "https://www.bu.edu/academics/camed/courses/"},
		{"COM", "https://www.bu.edu/academics/com/courses/"},
		{"ENG", "https://www.bu.edu/academics/eng/courses/"},
		{"CFA", "https://www.bu.edu/academics/cfa/courses/"},
		{"CGS", "https://www.bu.edu/academics/cgs/courses/"},
		{"CDS", "https://www.bu.edu/academics/cds/courses/"},
		{"GMS", "https://www.bu.edu/academics/gms/courses/"},
		{"CAS", "https://www.bu.edu/academics/grs/courses/"},
		{"SDM", "https://www.bu.edu/academics/sdm/courses/"},
		{"GMS", "https://www.bu.edu/academics/met/courses/"},
		{"QST", "https://www.bu.edu/academics/questrom/courses/"},
		{"SAR", "https://www.bu.edu/academics/sar/courses/"},
		{"SHA", "https://www.bu.edu/academics/sha/courses/"},
		{"LAW", "https://www.bu.edu/academics/law/courses/"},
		{"SPH", "https://www.bu.edu/academics/sph/courses/"},
		{"SSW", "https://www.bu.edu/academics/ssw/courses/"},
		{"STH", "https://www.bu.edu/academics/sth/courses/"},
		{"WED", "https://www.bu.edu/academics/wheelock/courses/"},
	}
}

// ParseSources parses a comma-separated list of CODE=URL pairs, e.g.
// "CAS=https://example.edu/cas/courses/,ENG=https://example.edu/eng/courses/".
func ParseSources(s string) ([]Source, error) {
	var sources []Source
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, base, found := strings.Cut(pair, "=")
		if !found || code == "" || base == "" {
			return nil, fmt.Errorf("malformed source %q, want CODE=URL", pair)
		}
		sources = append(sources, Source{Code: strings.TrimSpace(code), BaseURL: strings.TrimSpace(base)})
	}
	return sources, nil
}

// CourseTitle is the parsed form of a listing anchor's visible text.
type CourseTitle struct {
	Institution string
	Department  string
	CourseCode  string
	Title       string
}

// ParseCourseTitle splits an anchor text like
// "CAS CS 112: Introduction to Computer Science II" into its parts. The first
// two whitespace tokens are institution and department; the course code is the
// third token up to its first colon; the title is everything after the first
// ": ", so titles containing further colons stay intact.
func ParseCourseTitle(text string) (CourseTitle, error) {
	tokens := strings.Fields(text)
	if len(tokens) < 3 {
		return CourseTitle{}, fmt.Errorf("course title %q has fewer than 3 tokens", text)
	}

	code, _, _ := strings.Cut(tokens[2], ":")

	_, title, found := strings.Cut(text, ": ")
	if !found {
		return CourseTitle{}, fmt.Errorf("course title %q has no %q separator", text, ": ")
	}

	return CourseTitle{
		Institution: tokens[0],
		Department:  tokens[1],
		CourseCode:  code,
		Title:       title,
	}, nil
}

// PageCount inspects the pagination control of a listing page and returns the
// highest page number it advertises. An absent or malformed control means a
// single page.
func PageCount(doc *goquery.Document) int {
	pagination := doc.Find("div.pagination")
	if pagination.Length() == 0 {
		return 1
	}
	spans := pagination.Find("span")
	if spans.Length() == 0 {
		return 1
	}
	anchor := spans.Last().Find("a").First()
	if anchor.Length() == 0 {
		return 1
	}
	pages, err := strconv.Atoi(strings.TrimSpace(anchor.Text()))
	if err != nil || pages < 1 {
		return 1
	}
	return pages
}

// Anchor is one candidate course link found on a listing page: the anchor's
// visible text plus its absolute target URL.
type Anchor struct {
	Text string
	URL  string
}

// CourseAnchors extracts the anchors on a listing page that look like course
// links for the given source: visible text mentioning the institution code and
// an href containing a course-detail path segment. Relative hrefs are resolved
// against the page URL.
func CourseAnchors(doc *goquery.Document, pageURL string, src Source) []Anchor {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var anchors []Anchor
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		href, exists := sel.Attr("href")
		if !exists {
			return
		}
		if !strings.Contains(text, src.Code) || !strings.Contains(href, "/courses/") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		anchors = append(anchors, Anchor{Text: text, URL: base.ResolveReference(ref).String()})
	})
	return anchors
}

// CourseDetail is the enrichment payload scraped from one course detail page.
type CourseDetail struct {
	RequirementNames []string
	Description      *string
}

// ParseCourseDetail extracts the requirement display names from the offerings
// list and the first paragraph of the course content region. Either part may be
// absent.
func ParseCourseDetail(doc *goquery.Document) CourseDetail {
	var detail CourseDetail
	doc.Find("ul.cf-hub-offerings li").Each(func(_ int, sel *goquery.Selection) {
		if name := strings.TrimSpace(sel.Text()); name != "" {
			detail.RequirementNames = append(detail.RequirementNames, name)
		}
	})
	paragraph := doc.Find("#course-content p").First()
	if paragraph.Length() > 0 {
		text := strings.TrimSpace(paragraph.Text())
		detail.Description = &text
	}
	return detail
}

// NoPrereqs derives the prerequisite flag from a course description: true
// unless the text mentions a prerequisite (hyphenated spelling included).
// Courses without a description default to having no prerequisites.
func NoPrereqs(description *string) bool {
	if description == nil {
		return true
	}
	lower := strings.ToLower(*description)
	return !strings.Contains(lower, "prerequisite") && !strings.Contains(lower, "pre-requisite")
}
