package templates

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"cvrender/internal/i18n"
	"cvrender/internal/markup"
	"cvrender/internal/resume"
)

const testPhoto = "data:image/png;base64,iVBORw0KGgo="

func boolPtr(v bool) *bool { return &v }

func fullResume() resume.Resume {
	return resume.Resume{
		LastName:  "Ivanova",
		FirstName: "Anna",
		Position:  "Backend Engineer",
		Contacts: resume.Contacts{
			Email:    "anna@example.com",
			Phone:    "+7 (900) 123-45-67",
			Location: "Berlin",
			GitHub:   "annaiv",
			Telegram: "@anna_iv",
			LinkedIn: "linkedin.com/in/anna-iv",
			Website:  "https://anna.dev",
		},
		Summary: "Go developer with a taste for distributed systems.",
		Experience: []resume.Experience{
			{Company: "Acme", Position: "Senior Engineer", StartDate: "2021-03", IsCurrent: true, Description: "- Built billing\n- Cut latency by 40%"},
			{Company: "Globex", Position: "Engineer", StartDate: "2018-06", EndDate: "2021-02", Description: "Maintained the payments gateway"},
			{Company: "Initech", Position: "Intern", StartDate: "2017-01", EndDate: "2017-06"},
		},
		Projects: []resume.Project{
			{Name: "cvrender", Role: "Author", Stack: "Go, Chromium", Link: "https://github.com/annaiv/cvrender", Description: "• PDF export"},
		},
		TechSkills: resume.Skills{Tags: []string{"Go", "PostgreSQL", " ", "Redis"}, Note: "Daily driver: Go\nLearning: Rust"},
		SoftSkills: resume.Skills{Tags: []string{"Mentoring"}},
		Education: []resume.Education{
			{Institution: "MSU", Degree: "BSc", Field: "Computer Science", StartDate: "2013", EndDate: "2017"},
		},
		Languages: []resume.Language{{Name: "English", Level: "C1"}, {Name: "German", Level: "B1"}},
		EmploymentPreferences: resume.EmploymentPreferences{
			EmploymentType: []string{"full_time"},
			WorkFormat:     []string{"remote", "hybrid"},
			Relocation:     boolPtr(false),
			Timezone:       "UTC+1",
		},
		Certifications: []resume.Certification{{Name: "CKA", Issuer: "CNCF", Year: "2022", Link: "https://cncf.io/cka"}},
		Activities:     []resume.Activity{{Type: "Talk", Name: "GopherCon", Role: "Speaker", Description: "Talked about PDFs"}},
		IncludePhoto:   true,
		Photo:          testPhoto,
	}
}

type rendered struct {
	key  string
	root *html.Node
}

func renderAll(r resume.Resume, loc i18n.Locale) []rendered {
	out := make([]rendered, 0, len(registry))
	for _, tpl := range All() {
		out = append(out, rendered{key: tpl.Key, root: tpl.Layout(r, loc, r.Accent())})
	}
	return out
}

func sections(root *html.Node, s resume.Section) []*html.Node {
	return markup.ByAttr(root, "data-section", string(s))
}

func items(root *html.Node, s resume.Section) []*html.Node {
	return markup.ByAttr(root, "data-item", string(s))
}

func TestEveryTemplateUsesFixedCanvas(t *testing.T) {
	for _, out := range renderAll(fullResume(), i18n.EN) {
		style := markup.GetAttr(out.root, "style")
		if !strings.Contains(style, "width:794px") || !strings.Contains(style, "min-height:1123px") {
			t.Errorf("%s: unexpected canvas style %q", out.key, style)
		}
		if got := markup.GetAttr(out.root, "data-template"); got != out.key {
			t.Errorf("%s: data-template = %q", out.key, got)
		}
	}
}

func TestHiddenSectionIsRemovedFromEveryTemplate(t *testing.T) {
	r := fullResume()
	r.SectionsVisibility = map[resume.Section]bool{resume.SectionExperience: false}

	for _, out := range renderAll(r, i18n.EN) {
		if n := len(sections(out.root, resume.SectionExperience)); n != 0 {
			t.Errorf("%s: experience rendered %d times while hidden", out.key, n)
		}
		if strings.Contains(markup.TextContent(out.root), "Acme") {
			t.Errorf("%s: hidden experience leaked into output", out.key)
		}
		for _, s := range []resume.Section{resume.SectionSummary, resume.SectionEducation, resume.SectionProjects} {
			if len(sections(out.root, s)) != 1 {
				t.Errorf("%s: section %s should still render", out.key, s)
			}
		}
	}
}

func TestVisibleButEmptySectionIsOmitted(t *testing.T) {
	r := fullResume()
	r.Summary = "  "
	r.Certifications = []resume.Certification{{}}
	r.SoftSkills = resume.Skills{Tags: []string{"", " "}}
	r.EmploymentPreferences = resume.EmploymentPreferences{}

	for _, out := range renderAll(r, i18n.EN) {
		for _, s := range []resume.Section{
			resume.SectionSummary,
			resume.SectionCertifications,
			resume.SectionSoftSkills,
			resume.SectionEmploymentPreferences,
		} {
			if len(sections(out.root, s)) != 0 {
				t.Errorf("%s: empty section %s rendered", out.key, s)
			}
		}
	}
}

func TestPlaceholderEntriesAreDropped(t *testing.T) {
	r := fullResume()
	r.Experience = []resume.Experience{{}, {Company: "Acme"}}

	for _, out := range renderAll(r, i18n.EN) {
		got := items(out.root, resume.SectionExperience)
		if len(got) != 1 {
			t.Fatalf("%s: want 1 experience entry, got %d", out.key, len(got))
		}
		if !strings.Contains(markup.TextContent(got[0]), "Acme") {
			t.Errorf("%s: rendered entry is not Acme: %q", out.key, markup.TextContent(got[0]))
		}
	}
}

func TestEntriesKeepInputOrder(t *testing.T) {
	for _, out := range renderAll(fullResume(), i18n.EN) {
		got := items(out.root, resume.SectionExperience)
		if len(got) != 3 {
			t.Fatalf("%s: want 3 experience entries, got %d", out.key, len(got))
		}
		for i, company := range []string{"Acme", "Globex", "Initech"} {
			if !strings.Contains(markup.TextContent(got[i]), company) {
				t.Errorf("%s: entry %d should be %s", out.key, i, company)
			}
		}
	}
}

func TestSingleLineDescriptionIsNeverLost(t *testing.T) {
	r := fullResume()
	r.Experience = []resume.Experience{{Company: "Acme", Description: "just one line no dash"}}
	for _, out := range renderAll(r, i18n.EN) {
		if !strings.Contains(markup.TextContent(out.root), "just one line no dash") {
			t.Errorf("%s: description dropped", out.key)
		}
	}
}

func TestHeaderWithPositionOnly(t *testing.T) {
	r := resume.Resume{Position: "Frontend Developer", SectionsVisibility: map[resume.Section]bool{}}
	for _, out := range renderAll(r, i18n.EN) {
		headers := markup.ByAttr(out.root, "data-block", "header")
		if len(headers) != 1 {
			t.Fatalf("%s: want one header, got %d", out.key, len(headers))
		}
		text := strings.TrimSpace(markup.TextContent(headers[0]))
		if text != "Frontend Developer" {
			t.Errorf("%s: header text = %q", out.key, text)
		}
		if len(markup.ByClass(out.root, "name")) != 0 {
			t.Errorf("%s: empty name element rendered", out.key)
		}
	}
}

func TestEmptyResumeRendersBareCanvas(t *testing.T) {
	for _, out := range renderAll(resume.Resume{}, i18n.RU) {
		if len(markup.ByAttr(out.root, "data-block", "header")) != 0 {
			t.Errorf("%s: header rendered for empty resume", out.key)
		}
		if txt := strings.TrimSpace(markup.TextContent(out.root)); txt != "" {
			t.Errorf("%s: unexpected text %q", out.key, txt)
		}
	}
}

func TestDefaultAccentIsAppliedConsistently(t *testing.T) {
	r := fullResume()
	r.AccentColor = ""
	for _, out := range renderAll(r, i18n.EN) {
		style := markup.GetAttr(out.root, "style")
		if !strings.Contains(style, "--accent:"+resume.DefaultAccentColor) {
			t.Errorf("%s: accent variable missing from %q", out.key, style)
		}
	}
}

func TestAccentDoesNotChangeContent(t *testing.T) {
	r := fullResume()
	for _, tpl := range All() {
		blue := markup.TextContent(tpl.Layout(r, i18n.EN, "#2563eb"))
		red := markup.TextContent(tpl.Layout(r, i18n.EN, "#dc2626"))
		if blue != red {
			t.Errorf("%s: accent changed rendered text", tpl.Key)
		}
	}
}

func TestLocaleDoesNotChangeSections(t *testing.T) {
	r := fullResume()
	for _, tpl := range All() {
		en := tpl.Layout(r, i18n.EN, r.Accent())
		ru := tpl.Layout(r, i18n.RU, r.Accent())
		for _, s := range resume.AllSections() {
			if len(sections(en, s)) != len(sections(ru, s)) {
				t.Errorf("%s: section %s differs between locales", tpl.Key, s)
			}
		}
	}
}

func TestCurrentJobUsesLocalizedPresentLabel(t *testing.T) {
	r := resume.Resume{Experience: []resume.Experience{{Company: "Acme", StartDate: "2021-03", IsCurrent: true}}}
	for _, out := range renderAll(r, i18n.RU) {
		text := markup.TextContent(out.root)
		if !strings.Contains(text, "2021-03 — по настоящее время") {
			t.Errorf("%s: localized period missing in %q", out.key, text)
		}
		if strings.Contains(text, "Present") {
			t.Errorf("%s: english label leaked into russian output", out.key)
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := fullResume()
	for _, tpl := range All() {
		first := markup.String(tpl.Layout(r, i18n.EN, r.Accent()))
		second := markup.String(tpl.Layout(r, i18n.EN, r.Accent()))
		if first != second {
			t.Errorf("%s: output differs between renders", tpl.Key)
		}
	}
}

func TestPhotoGate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*resume.Resume)
		want   bool
	}{
		{"shown", func(*resume.Resume) {}, true},
		{"include flag off", func(r *resume.Resume) { r.IncludePhoto = false }, false},
		{"visibility off", func(r *resume.Resume) {
			r.SectionsVisibility = map[resume.Section]bool{resume.SectionPhoto: false}
		}, false},
		{"remote url", func(r *resume.Resume) { r.Photo = "https://example.com/me.png" }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := fullResume()
			tc.mutate(&r)
			for _, out := range renderAll(r, i18n.EN) {
				if out.key == "ats" {
					if len(sections(out.root, resume.SectionPhoto)) != 0 {
						t.Errorf("ats must never render a photo")
					}
					continue
				}
				got := len(sections(out.root, resume.SectionPhoto)) == 1
				if got != tc.want {
					t.Errorf("%s: photo rendered = %v, want %v", out.key, got, tc.want)
				}
			}
		})
	}
}

func TestContactsAreNormalized(t *testing.T) {
	r := fullResume()
	r.Contacts.GitHub = "not a url!!"
	for _, out := range renderAll(r, i18n.EN) {
		sec := sections(out.root, resume.SectionContacts)
		if len(sec) != 1 {
			t.Fatalf("%s: want contacts section", out.key)
		}
		text := markup.TextContent(sec[0])
		if strings.Contains(text, "not a url") {
			t.Errorf("%s: raw github value displayed", out.key)
		}
		hrefs := map[string]bool{}
		for _, a := range markup.FindAll(sec[0], func(n *html.Node) bool { return n.Data == "a" }) {
			hrefs[markup.GetAttr(a, "href")] = true
		}
		for _, want := range []string{"https://t.me/anna_iv", "https://www.linkedin.com/in/anna-iv/", "mailto:anna@example.com"} {
			if !hrefs[want] {
				t.Errorf("%s: missing link %s", out.key, want)
			}
		}
	}
}

func TestInvalidItemLinkIsNotDisplayed(t *testing.T) {
	r := fullResume()
	r.Projects = []resume.Project{{Name: "Side project", Link: "javascript:alert(1)"}}
	for _, out := range renderAll(r, i18n.EN) {
		if strings.Contains(markup.String(out.root), "javascript:") {
			t.Errorf("%s: unsafe link rendered", out.key)
		}
	}
}

func TestInvalidLinkOnlyEntriesProduceNoSection(t *testing.T) {
	r := resume.Resume{
		FirstName:      "Ivan",
		Projects:       []resume.Project{{Link: "not a url!!"}},
		Certifications: []resume.Certification{{Link: "ftp://x"}},
		Activities:     []resume.Activity{{Link: "javascript:alert(1)"}},
	}
	for _, out := range renderAll(r, i18n.EN) {
		for _, s := range []resume.Section{
			resume.SectionProjects,
			resume.SectionCertifications,
			resume.SectionActivities,
		} {
			if n := len(sections(out.root, s)); n != 0 {
				t.Errorf("%s: section %s rendered for entries with nothing to show", out.key, s)
			}
			if n := len(items(out.root, s)); n != 0 {
				t.Errorf("%s: %d empty %s items rendered", out.key, n, s)
			}
		}
	}
}

func TestSkillTagsKeepInputOrder(t *testing.T) {
	for _, out := range renderAll(fullResume(), i18n.EN) {
		got := items(out.root, resume.SectionTechSkills)
		if out.key == "ats" {
			if len(got) != 1 || markup.TextContent(got[0]) != "Go, PostgreSQL, Redis." {
				t.Errorf("ats: skill sentence = %v", got)
			}
			continue
		}
		var tags []string
		for _, n := range got {
			tags = append(tags, markup.TextContent(n))
		}
		if strings.Join(tags, ",") != "Go,PostgreSQL,Redis" {
			t.Errorf("%s: tags = %v", out.key, tags)
		}
	}
}

func TestRelocationIsRenderedOnlyWhenAnswered(t *testing.T) {
	r := fullResume()
	for _, out := range renderAll(r, i18n.EN) {
		text := markup.TextContent(sections(out.root, resume.SectionEmploymentPreferences)[0])
		if !strings.Contains(text, "No") && !strings.Contains(text, "not ready to relocate") {
			t.Errorf("%s: relocation answer missing in %q", out.key, text)
		}
	}

	r.EmploymentPreferences.Relocation = nil
	for _, out := range renderAll(r, i18n.EN) {
		text := markup.TextContent(sections(out.root, resume.SectionEmploymentPreferences)[0])
		if strings.Contains(text, "Relocation") || strings.Contains(text, "relocate") {
			t.Errorf("%s: unanswered relocation rendered in %q", out.key, text)
		}
	}
}

func TestResolveFallsBackToClassic(t *testing.T) {
	for _, key := range []string{"", "unknown", "  "} {
		if got := Resolve(key).Key; got != DefaultKey {
			t.Errorf("Resolve(%q) = %s", key, got)
		}
	}
	if got := Resolve(" Sidebar ").Key; got != "sidebar" {
		t.Errorf("Resolve(Sidebar) = %s", got)
	}
	if Known("nope") || !Known("ats") {
		t.Error("Known mismatch")
	}
}

func TestRenderUsesResumeTemplateAndAccent(t *testing.T) {
	r := fullResume()
	r.TemplateKey = "timeline"
	r.AccentColor = "#10B981"
	root := Render(r, i18n.EN)
	if markup.GetAttr(root, "data-template") != "timeline" {
		t.Fatalf("template = %s", markup.GetAttr(root, "data-template"))
	}
	if !strings.Contains(markup.GetAttr(root, "style"), "--accent:#10b981") {
		t.Errorf("accent not applied: %s", markup.GetAttr(root, "style"))
	}
}

func TestTemplateTitles(t *testing.T) {
	for _, tpl := range All() {
		if tpl.Title(i18n.EN) == "" || tpl.Title(i18n.RU) == "" {
			t.Errorf("%s: missing title", tpl.Key)
		}
	}
}
