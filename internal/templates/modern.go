package templates

import (
	"golang.org/x/net/html"

	"cvrender/internal/content"
	"cvrender/internal/i18n"
	"cvrender/internal/markup"
	"cvrender/internal/resume"
)

const modernCSS = `.tpl-modern{background:#fff;border-top:10px solid var(--accent)}
.tpl-modern .hero{display:flex;justify-content:space-between;align-items:center;padding:32px 44px 20px}
.tpl-modern .name{font-size:34px;font-weight:800;letter-spacing:-.02em}
.tpl-modern .position{font-size:16px;color:#6b7280;margin-top:4px}
.tpl-modern .photo img{width:110px;height:110px;border-radius:50%;object-fit:cover;box-shadow:0 0 0 4px var(--accent)}
.tpl-modern .body{display:grid;grid-template-columns:2fr 1fr;gap:28px;padding:0 44px 40px}
.tpl-modern h2{display:flex;align-items:center;gap:8px;font-size:14px;font-weight:700;margin:18px 0 8px}
.tpl-modern h2:before{content:"";width:18px;height:3px;background:var(--accent)}
.tpl-modern .card{margin-bottom:12px}
.tpl-modern .card-title{font-weight:700}
.tpl-modern .card-meta{font-size:12px;color:#6b7280}
.tpl-modern .lines{list-style:none;margin-top:4px}
.tpl-modern .lines li{padding-left:12px;border-left:2px solid #e5e7eb;margin-top:2px}
.tpl-modern .pill{display:inline-block;background:var(--accent);color:#fff;border-radius:999px;padding:2px 10px;margin:0 4px 6px 0;font-size:11px}
.tpl-modern .small{font-size:12px;color:#4b5563}
.tpl-modern .contact{display:block;font-size:12px;margin-bottom:4px;word-break:break-all}
.tpl-modern .pref{font-size:12px;margin-bottom:4px}
.tpl-modern .pref span{color:#6b7280}`

// Modern 现代布局：顶部强调色条，正文 2:1 双栏。
func Modern(r resume.Resume, loc i18n.Locale, accent string) *html.Node {
	l := i18n.For(loc)
	main := markup.Div("main",
		modernSummary(r, l),
		modernExperience(r, l),
		modernProjects(r, l),
		modernActivities(r, l),
	)
	side := markup.Div("side",
		modernContacts(r, l),
		modernSkills(r, resume.SectionTechSkills, l.TechSkills, r.TechSkills),
		modernSkills(r, resume.SectionSoftSkills, l.SoftSkills, r.SoftSkills),
		modernEducation(r, l),
		modernLanguages(r, l),
		modernCertifications(r, l),
		modernPreferences(r, l),
	)
	return canvas("modern", accent, modernCSS, "", modernHero(r), markup.Div("body", main, side))
}

func modernHero(r resume.Resume) *html.Node {
	if !r.HasHeader() && !r.ShowPhoto() {
		return nil
	}
	var photo *html.Node
	if r.ShowPhoto() {
		photo = photoEl(r, "photo")
	}
	return headerEl("hero",
		markup.Div("",
			textIf("h1", "name", r.FullName()),
			textIf("div", "position", r.Position),
		),
		photo,
	)
}

func modernLines(text string) *html.Node {
	d := describe(text)
	if d.Paragraph != "" {
		return markup.TextEl("p", "para", d.Paragraph)
	}
	if len(d.Bullets) == 0 {
		return nil
	}
	ul := markup.El("ul", markup.A{"class": "lines"})
	for _, b := range d.Bullets {
		markup.Append(ul, markup.TextEl("li", "", b))
	}
	return ul
}

func modernSection(s resume.Section, title string) *html.Node {
	return sectionEl(s, "part", markup.TextEl("h2", "", title))
}

func modernLink(raw string) *html.Node {
	href, display, ok := itemLink(raw)
	if !ok {
		return nil
	}
	return markup.Div("card-meta", markup.Link("", href, display))
}

func modernSummary(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionSummary) {
		return nil
	}
	return markup.Append(modernSection(resume.SectionSummary, l.Profile),
		markup.TextEl("p", "para", trim(r.Summary)))
}

func modernExperience(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionExperience) {
		return nil
	}
	sec := modernSection(resume.SectionExperience, l.Experience)
	for _, e := range resume.FilledExperience(r.Experience) {
		markup.Append(sec, itemEl("article", resume.SectionExperience, "card",
			textIf("div", "card-title", content.JoinNonEmpty(" @ ", e.Position, e.Company)),
			textIf("div", "card-meta", content.JoinNonEmpty(content.DefaultSeparator,
				period(l, e.StartDate, e.EndDate, e.IsCurrent), e.Location)),
			modernLines(e.Description),
		))
	}
	return sec
}

func modernProjects(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionProjects) {
		return nil
	}
	sec := modernSection(resume.SectionProjects, l.Projects)
	for _, p := range resume.FilledProjects(r.Projects) {
		markup.Append(sec, itemEl("article", resume.SectionProjects, "card",
			textIf("div", "card-title", p.Name),
			textIf("div", "card-meta", content.JoinNonEmpty(content.DefaultSeparator, p.Role, p.Stack)),
			modernLink(p.Link),
			modernLines(p.Description),
		))
	}
	return sec
}

func modernActivities(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionActivities) {
		return nil
	}
	sec := modernSection(resume.SectionActivities, l.Activities)
	for _, a := range resume.FilledActivities(r.Activities) {
		markup.Append(sec, itemEl("article", resume.SectionActivities, "card",
			textIf("div", "card-title", a.Name),
			textIf("div", "card-meta", content.JoinNonEmpty(content.DefaultSeparator, a.Type, a.Role)),
			modernLink(a.Link),
			modernLines(a.Description),
		))
	}
	return sec
}

func modernContacts(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionContacts) {
		return nil
	}
	sec := modernSection(resume.SectionContacts, l.Contacts)
	for _, c := range resume.ContactEntries(r.Contacts) {
		if c.Href != "" {
			markup.Append(sec, markup.Link("contact", c.Href, c.Value))
			continue
		}
		markup.Append(sec, markup.TextEl("span", "contact", c.Value))
	}
	return sec
}

func modernSkills(r resume.Resume, s resume.Section, title string, skills resume.Skills) *html.Node {
	if !resume.Shows(r, s) {
		return nil
	}
	sec := modernSection(s, title)
	for _, t := range skills.VisibleTags() {
		markup.Append(sec, itemEl("span", s, "pill", markup.Text(t)))
	}
	return markup.Append(sec, textIf("p", "small pre", skills.Note))
}

func modernEducation(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionEducation) {
		return nil
	}
	sec := modernSection(resume.SectionEducation, l.Education)
	for _, e := range resume.FilledEducation(r.Education) {
		markup.Append(sec, itemEl("div", resume.SectionEducation, "card",
			textIf("div", "card-title", e.Institution),
			textIf("div", "small", content.JoinNonEmpty(", ", e.Degree, e.Field)),
			textIf("div", "card-meta", period(l, e.StartDate, e.EndDate, false)),
		))
	}
	return sec
}

func modernLanguages(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionLanguages) {
		return nil
	}
	sec := modernSection(resume.SectionLanguages, l.Languages)
	for _, lang := range resume.FilledLanguages(r.Languages) {
		markup.Append(sec, itemEl("div", resume.SectionLanguages, "small",
			textIf("b", "", lang.Name),
			textIf("span", "", modernLevel(lang)),
		))
	}
	return sec
}

func modernLevel(lang resume.Language) string {
	if hasText(lang.Name) && hasText(lang.Level) {
		return content.DefaultSeparator + trim(lang.Level)
	}
	return lang.Level
}

func modernCertifications(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionCertifications) {
		return nil
	}
	sec := modernSection(resume.SectionCertifications, l.Certifications)
	for _, c := range resume.FilledCertifications(r.Certifications) {
		markup.Append(sec, itemEl("div", resume.SectionCertifications, "card",
			textIf("div", "card-title", c.Name),
			textIf("div", "card-meta", content.JoinNonEmpty(content.DefaultSeparator, c.Issuer, c.Year)),
			modernLink(c.Link),
		))
	}
	return sec
}

func modernPreferences(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionEmploymentPreferences) {
		return nil
	}
	sec := modernSection(resume.SectionEmploymentPreferences, l.EmploymentPreferences)
	for _, p := range preferenceRows(l, r.EmploymentPreferences) {
		markup.Append(sec, itemEl("div", resume.SectionEmploymentPreferences, "pref",
			markup.TextEl("span", "", p.Label+": "),
			markup.Text(p.Value),
		))
	}
	return sec
}
