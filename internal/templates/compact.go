package templates

import (
	"golang.org/x/net/html"

	"cvrender/internal/content"
	"cvrender/internal/i18n"
	"cvrender/internal/markup"
	"cvrender/internal/resume"
)

const compactCSS = `.tpl-compact{padding:28px 34px;font-size:11.5px;line-height:1.35;background:#fff}
.tpl-compact .top{display:flex;justify-content:space-between;align-items:flex-end;border-bottom:2px solid var(--accent);padding-bottom:8px}
.tpl-compact .photo img{width:64px;height:64px;border-radius:6px;object-fit:cover}
.tpl-compact .name{font-size:20px;font-weight:700}
.tpl-compact .position{font-size:12px;color:#374151}
.tpl-compact .line{display:flex;flex-wrap:wrap;gap:2px 10px;margin-top:6px;color:#4b5563}
.tpl-compact .sec{display:grid;grid-template-columns:110px 1fr;gap:10px;margin-top:10px}
.tpl-compact .sec-title{font-weight:700;text-transform:uppercase;font-size:10px;color:var(--accent);padding-top:2px}
.tpl-compact .row{margin-bottom:6px}
.tpl-compact .row-head{display:flex;justify-content:space-between}
.tpl-compact .row-head b{font-weight:600}
.tpl-compact .row-head i{font-style:normal;color:#6b7280}
.tpl-compact .ticks{list-style:none}
.tpl-compact .ticks li:before{content:"– ";color:var(--accent)}
.tpl-compact .inline span+span:before{content:" · ";color:#9ca3af}`

// Compact 紧凑布局：左侧窄标题列，信息密度高；求职偏好以一句话概括。
func Compact(r resume.Resume, loc i18n.Locale, accent string) *html.Node {
	l := i18n.For(loc)
	return canvas("compact", accent, compactCSS, "",
		compactTop(r),
		compactSummary(r, l),
		compactExperience(r, l),
		compactProjects(r, l),
		compactEducation(r, l),
		compactSkills(r, resume.SectionTechSkills, l.TechSkills, r.TechSkills),
		compactSkills(r, resume.SectionSoftSkills, l.SoftSkills, r.SoftSkills),
		compactLanguages(r, l),
		compactCertifications(r, l),
		compactActivities(r, l),
		compactPreferences(r, l),
	)
}

func compactTop(r resume.Resume) *html.Node {
	showContacts := resume.Shows(r, resume.SectionContacts)
	if !r.HasHeader() && !showContacts && !r.ShowPhoto() {
		return nil
	}
	var line *html.Node
	if showContacts {
		line = markup.El("div", markup.A{"class": "line", "data-section": string(resume.SectionContacts)})
		for _, c := range resume.ContactEntries(r.Contacts) {
			if c.Href != "" {
				markup.Append(line, markup.Link("", c.Href, c.Value))
			} else {
				markup.Append(line, markup.TextEl("span", "", c.Value))
			}
		}
	}
	var photo *html.Node
	if r.ShowPhoto() {
		photo = photoEl(r, "photo")
	}
	return headerEl("top",
		markup.Div("",
			textIf("h1", "name", r.FullName()),
			textIf("div", "position", r.Position),
			line,
		),
		photo,
	)
}

func compactSec(s resume.Section, title string, body ...*html.Node) *html.Node {
	return sectionEl(s, "sec",
		markup.TextEl("h2", "sec-title", title),
		markup.Div("sec-body", body...),
	)
}

func compactDetails(text string) *html.Node {
	d := describe(text)
	if len(d.Bullets) > 0 {
		ul := markup.El("ul", markup.A{"class": "ticks"})
		for _, b := range d.Bullets {
			markup.Append(ul, markup.TextEl("li", "", b))
		}
		return ul
	}
	return textIf("p", "para", d.Paragraph)
}

func compactRow(s resume.Section, left, right string, rest ...*html.Node) *html.Node {
	row := itemEl("div", s, "row")
	if hasText(left) || hasText(right) {
		markup.Append(row, markup.Div("row-head", textIf("b", "", left), textIf("i", "", right)))
	}
	return markup.Append(row, rest...)
}

func compactSummary(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionSummary) {
		return nil
	}
	return compactSec(resume.SectionSummary, l.Summary, markup.TextEl("p", "para", trim(r.Summary)))
}

func compactExperience(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionExperience) {
		return nil
	}
	rows := make([]*html.Node, 0, len(r.Experience))
	for _, e := range resume.FilledExperience(r.Experience) {
		rows = append(rows, compactRow(resume.SectionExperience,
			content.JoinNonEmpty(", ", e.Position, e.Company, e.Location),
			period(l, e.StartDate, e.EndDate, e.IsCurrent),
			compactDetails(e.Description),
		))
	}
	return compactSec(resume.SectionExperience, l.Experience, rows...)
}

func compactProjects(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionProjects) {
		return nil
	}
	rows := make([]*html.Node, 0, len(r.Projects))
	for _, p := range resume.FilledProjects(r.Projects) {
		var link *html.Node
		if href, display, ok := itemLink(p.Link); ok {
			link = markup.Link("", href, display)
		}
		rows = append(rows, compactRow(resume.SectionProjects,
			content.JoinNonEmpty(content.DefaultSeparator, p.Name, p.Role), p.Stack,
			link,
			compactDetails(p.Description),
		))
	}
	return compactSec(resume.SectionProjects, l.Projects, rows...)
}

func compactEducation(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionEducation) {
		return nil
	}
	rows := make([]*html.Node, 0, len(r.Education))
	for _, e := range resume.FilledEducation(r.Education) {
		rows = append(rows, compactRow(resume.SectionEducation,
			content.JoinNonEmpty(", ", e.Institution, e.Degree, e.Field),
			period(l, e.StartDate, e.EndDate, false),
		))
	}
	return compactSec(resume.SectionEducation, l.Education, rows...)
}

func compactSkills(r resume.Resume, s resume.Section, title string, skills resume.Skills) *html.Node {
	if !resume.Shows(r, s) {
		return nil
	}
	var inline *html.Node
	if tags := skills.VisibleTags(); len(tags) > 0 {
		inline = markup.Div("inline")
		for _, t := range tags {
			markup.Append(inline, itemEl("span", s, "", markup.Text(t)))
		}
	}
	return compactSec(s, title, inline, textIf("p", "pre", skills.Note))
}

func compactLanguages(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionLanguages) {
		return nil
	}
	inline := markup.Div("inline")
	for _, lang := range resume.FilledLanguages(r.Languages) {
		markup.Append(inline, itemEl("span", resume.SectionLanguages, "",
			markup.Text(content.JoinNonEmpty(" ", trim(lang.Name), compactLevel(lang.Level)))))
	}
	return compactSec(resume.SectionLanguages, l.Languages, inline)
}

func compactLevel(level string) string {
	if !hasText(level) {
		return ""
	}
	return "(" + trim(level) + ")"
}

func compactCertifications(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionCertifications) {
		return nil
	}
	rows := make([]*html.Node, 0, len(r.Certifications))
	for _, c := range resume.FilledCertifications(r.Certifications) {
		var link *html.Node
		if href, display, ok := itemLink(c.Link); ok {
			link = markup.Link("", href, display)
		}
		rows = append(rows, compactRow(resume.SectionCertifications,
			content.JoinNonEmpty(", ", c.Name, c.Issuer), c.Year, link))
	}
	return compactSec(resume.SectionCertifications, l.Certifications, rows...)
}

func compactActivities(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionActivities) {
		return nil
	}
	rows := make([]*html.Node, 0, len(r.Activities))
	for _, a := range resume.FilledActivities(r.Activities) {
		var link *html.Node
		if href, display, ok := itemLink(a.Link); ok {
			link = markup.Link("", href, display)
		}
		rows = append(rows, compactRow(resume.SectionActivities,
			content.JoinNonEmpty(", ", a.Name, a.Role), a.Type,
			link,
			compactDetails(a.Description),
		))
	}
	return compactSec(resume.SectionActivities, l.Activities, rows...)
}

func compactPreferences(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionEmploymentPreferences) {
		return nil
	}
	sentence := preferenceSentence(l, r.EmploymentPreferences)
	return compactSec(resume.SectionEmploymentPreferences, l.EmploymentPreferences,
		itemEl("p", resume.SectionEmploymentPreferences, "", markup.Text(sentence)))
}
