package scraper_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"app/internal/scraper"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture HTML: %v", err)
	}
	return d
}

// ── ParseCourseTitle ───────────────────────────────────────────────────────

func TestParseCourseTitle(t *testing.T) {
	cases := []struct {
		text string
		want scraper.CourseTitle
	}{
		{
			"CAS CS 112: Introduction to Computer Science II",
			scraper.CourseTitle{Institution: "CAS", Department: "CS", CourseCode: "112", Title: "Introduction to Computer Science II"},
		},
		{
			// Splitting must occur on the first ": " only.
			"ENG ME 305: Thermodynamics: Heat and Work",
			scraper.CourseTitle{Institution: "ENG", Department: "ME", CourseCode: "305", Title: "Thermodynamics: Heat and Work"},
		},
		{
			// Third token carries the colon directly.
			"KHC HC 302: Studio Seminar",
			scraper.CourseTitle{Institution: "KHC", Department: "HC", CourseCode: "302", Title: "Studio Seminar"},
		},
	}
	for _, c := range cases {
		got, err := scraper.ParseCourseTitle(c.text)
		if err != nil {
			t.Errorf("ParseCourseTitle(%q) returned unexpected error: %v", c.text, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseCourseTitle(%q) = %+v, want %+v", c.text, got, c.want)
		}
	}
}

func TestParseCourseTitle_Malformed(t *testing.T) {
	malformed := []string{
		"",
		"CAS CS112",                 // fewer than 3 tokens
		"CAS CS 112 Intro Missing",  // no ": " separator
	}
	for _, text := range malformed {
		if _, err := scraper.ParseCourseTitle(text); err == nil {
			t.Errorf("ParseCourseTitle(%q) expected error, got nil", text)
		}
	}
}

// ── PageCount ──────────────────────────────────────────────────────────────

func TestPageCount(t *testing.T) {
	cases := []struct {
		name string
		html string
		want int
	}{
		{
			"multi page",
			`<div class="pagination"><span><a href="?page=1">1</a></span><span><a href="?page=7">7</a></span></div>`,
			7,
		},
		{"no pagination control", `<p>only one page here</p>`, 1},
		{"pagination without spans", `<div class="pagination"></div>`, 1},
		{"last span without anchor", `<div class="pagination"><span>next</span></div>`, 1},
		{
			"non-numeric page label",
			`<div class="pagination"><span><a href="#">next</a></span></div>`,
			1,
		},
	}
	for _, c := range cases {
		if got := scraper.PageCount(doc(t, c.html)); got != c.want {
			t.Errorf("%s: PageCount = %d, want %d", c.name, got, c.want)
		}
	}
}

// ── CourseAnchors ──────────────────────────────────────────────────────────

func TestCourseAnchors(t *testing.T) {
	html := `
		<a href="/academics/cas/courses/cas-cs-112/">CAS CS 112: Introduction to Computer Science II</a>
		<a href="/about/">About CAS</a>
		<a href="/academics/eng/courses/eng-me-305/">ENG ME 305: Thermodynamics</a>
		<a href="https://other.example.edu/academics/cas/courses/cas-ph-100/">CAS PH 100: Ideas</a>
		<a>CAS CS 111: No href</a>
	`
	src := scraper.Source{Code: "CAS", BaseURL: "https://www.example.edu/academics/cas/courses/"}
	anchors := scraper.CourseAnchors(doc(t, html), src.BaseURL+"1", src)

	if len(anchors) != 2 {
		t.Fatalf("CourseAnchors returned %d anchors, want 2: %+v", len(anchors), anchors)
	}
	if anchors[0].URL != "https://www.example.edu/academics/cas/courses/cas-cs-112/" {
		t.Errorf("relative href not resolved against page URL: %q", anchors[0].URL)
	}
	if anchors[1].URL != "https://other.example.edu/academics/cas/courses/cas-ph-100/" {
		t.Errorf("absolute href should be preserved: %q", anchors[1].URL)
	}
}

// ── ParseCourseDetail / NoPrereqs ──────────────────────────────────────────

func TestParseCourseDetail(t *testing.T) {
	html := `
		<ul class="cf-hub-offerings">
			<li>Quantitative Reasoning II</li>
			<li>Critical Thinking</li>
		</ul>
		<div id="course-content">
			<p>First paragraph of the description.</p>
			<p>Second paragraph is ignored.</p>
		</div>
	`
	detail := scraper.ParseCourseDetail(doc(t, html))
	if len(detail.RequirementNames) != 2 {
		t.Fatalf("RequirementNames = %v, want 2 entries", detail.RequirementNames)
	}
	if detail.Description == nil || *detail.Description != "First paragraph of the description." {
		t.Errorf("Description = %v, want first paragraph only", detail.Description)
	}
}

func TestParseCourseDetail_Empty(t *testing.T) {
	detail := scraper.ParseCourseDetail(doc(t, `<p>unrelated page</p>`))
	if len(detail.RequirementNames) != 0 {
		t.Errorf("expected no requirement names, got %v", detail.RequirementNames)
	}
	if detail.Description != nil {
		t.Errorf("expected nil description, got %q", *detail.Description)
	}
}

func TestNoPrereqs(t *testing.T) {
	yes := "An introduction open to all students."
	no := "Prerequisite: CAS CS 111."
	hyphen := "There is one pre-requisite for this course."
	upper := "PREREQUISITE knowledge of algebra."

	cases := []struct {
		desc *string
		want bool
	}{
		{nil, true}, // no description found defaults to no prerequisites
		{&yes, true},
		{&no, false},
		{&hyphen, false},
		{&upper, false},
	}
	for _, c := range cases {
		if got := scraper.NoPrereqs(c.desc); got != c.want {
			t.Errorf("NoPrereqs(%v) = %v, want %v", c.desc, got, c.want)
		}
	}
}

// ── ParseSources ───────────────────────────────────────────────────────────

func TestParseSources(t *testing.T) {
	sources, err := scraper.ParseSources("CAS=https://a.example.edu/courses/, ENG=https://b.example.edu/courses/")
	if err != nil {
		t.Fatalf("ParseSources returned unexpected error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("ParseSources returned %d sources, want 2", len(sources))
	}
	if sources[0].Code != "CAS" || sources[1].BaseURL != "https://b.example.edu/courses/" {
		t.Errorf("unexpected sources: %+v", sources)
	}
}

func TestParseSources_Malformed(t *testing.T) {
	for _, s := range []string{"CAS", "=https://a.example.edu/", "CAS="} {
		if _, err := scraper.ParseSources(s); err == nil {
			t.Errorf("ParseSources(%q) expected error, got nil", s)
		}
	}
}

func TestDefaultSources(t *testing.T) {
	sources := scraper.DefaultSources()
	if len(sources) == 0 {
		t.Fatal("DefaultSources should not be empty")
	}
	for _, src := range sources {
		if src.Code == "" || !strings.HasSuffix(src.BaseURL, "/courses/") {
			t.Errorf("unexpected default source: %+v", src)
		}
	}
}
