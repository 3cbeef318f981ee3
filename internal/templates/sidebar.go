package templates

import (
	"golang.org/x/net/html"

	"cvrender/internal/content"
	"cvrender/internal/i18n"
	"cvrender/internal/markup"
	"cvrender/internal/resume"
)

const sidebarCSS = `.tpl-sidebar{display:grid;grid-template-columns:250px 1fr;background:#fff}
.tpl-sidebar .aside{background:var(--accent);color:#fff;padding:40px 24px;min-height:1123px}
.tpl-sidebar .aside a{color:#fff}
.tpl-sidebar .aside h2{font-size:12px;text-transform:uppercase;letter-spacing:.1em;opacity:.85;margin:20px 0 8px}
.tpl-sidebar .photo img{width:140px;height:140px;border-radius:12px;object-fit:cover;display:block;margin:0 auto 12px}
.tpl-sidebar .contact{display:block;font-size:12px;margin-bottom:6px;word-break:break-all}
.tpl-sidebar .contact-label{display:block;font-size:10px;opacity:.75;text-transform:uppercase}
.tpl-sidebar .tag{display:inline-block;background:rgba(255,255,255,.18);border-radius:4px;padding:2px 8px;margin:0 4px 4px 0;font-size:12px}
.tpl-sidebar .side-note{font-size:12px;opacity:.9;margin-top:4px}
.tpl-sidebar .pref dt{font-size:10px;opacity:.75;text-transform:uppercase}
.tpl-sidebar .pref dd{margin:0 0 6px;font-size:12px}
.tpl-sidebar .main{padding:40px 36px}
.tpl-sidebar .name{font-size:30px;font-weight:800;line-height:1.1}
.tpl-sidebar .position{font-size:15px;color:var(--accent);margin-top:6px}
.tpl-sidebar .main h2{font-size:15px;color:var(--accent);border-bottom:1px solid #e5e7eb;padding-bottom:4px;margin:22px 0 10px}
.tpl-sidebar .item{margin-bottom:12px}
.tpl-sidebar .item-title{font-weight:700}
.tpl-sidebar .item-sub{color:#4b5563;font-size:12px}
.tpl-sidebar .points{list-style:disc;padding-left:18px;margin-top:4px}`

// Sidebar 双栏布局：左侧彩色侧栏放联系方式、技能、语言和求职偏好。
func Sidebar(r resume.Resume, loc i18n.Locale, accent string) *html.Node {
	l := i18n.For(loc)
	aside := markup.El("aside", markup.A{"class": "aside"},
		sidebarPhoto(r),
		sidebarContacts(r, l),
		sidebarSkills(r, resume.SectionTechSkills, l.TechSkills, r.TechSkills),
		sidebarSkills(r, resume.SectionSoftSkills, l.SoftSkills, r.SoftSkills),
		sidebarLanguages(r, l),
		sidebarPreferences(r, l),
	)
	main := markup.El("main", markup.A{"class": "main"},
		sidebarHeader(r),
		sidebarSummary(r, l),
		sidebarExperience(r, l),
		sidebarProjects(r, l),
		sidebarEducation(r, l),
		sidebarCertifications(r, l),
		sidebarActivities(r, l),
	)
	return canvas("sidebar", accent, sidebarCSS, "", aside, main)
}

func sidebarPhoto(r resume.Resume) *html.Node {
	if !r.ShowPhoto() {
		return nil
	}
	return photoEl(r, "photo")
}

func sidebarHeader(r resume.Resume) *html.Node {
	if !r.HasHeader() {
		return nil
	}
	return headerEl("head",
		textIf("h1", "name", r.FullName()),
		textIf("div", "position", r.Position),
	)
}

func sidebarContacts(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionContacts) {
		return nil
	}
	sec := sectionEl(resume.SectionContacts, "side-block", markup.TextEl("h2", "", l.Contacts))
	for _, c := range resume.ContactEntries(r.Contacts) {
		var value *html.Node
		if c.Href != "" {
			value = markup.Link("", c.Href, c.Value)
		} else {
			value = markup.Text(c.Value)
		}
		markup.Append(sec, markup.Span("contact",
			markup.TextEl("span", "contact-label", contactLabel(l, c.Kind)),
			value,
		))
	}
	return sec
}

func sidebarSkills(r resume.Resume, s resume.Section, title string, skills resume.Skills) *html.Node {
	if !resume.Shows(r, s) {
		return nil
	}
	sec := sectionEl(s, "side-block", markup.TextEl("h2", "", title))
	tags := skills.VisibleTags()
	if len(tags) > 0 {
		wrap := markup.Div("tags")
		for _, t := range tags {
			markup.Append(wrap, itemEl("span", s, "tag", markup.Text(t)))
		}
		markup.Append(sec, wrap)
	}
	return markup.Append(sec, textIf("p", "side-note pre", skills.Note))
}

func sidebarLanguages(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionLanguages) {
		return nil
	}
	sec := sectionEl(resume.SectionLanguages, "side-block", markup.TextEl("h2", "", l.Languages))
	for _, lang := range resume.FilledLanguages(r.Languages) {
		markup.Append(sec, itemEl("div", resume.SectionLanguages, "lang",
			textIf("strong", "", lang.Name),
			textIf("span", "side-note", sidebarLevel(lang)),
		))
	}
	return sec
}

func sidebarLevel(lang resume.Language) string {
	if !hasText(lang.Level) {
		return ""
	}
	if !hasText(lang.Name) {
		return trim(lang.Level)
	}
	return " (" + trim(lang.Level) + ")"
}

func sidebarPreferences(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionEmploymentPreferences) {
		return nil
	}
	dl := markup.El("dl", markup.A{"class": "pref"})
	for _, p := range preferenceRows(l, r.EmploymentPreferences) {
		markup.Append(dl,
			markup.TextEl("dt", "", p.Label),
			itemEl("dd", resume.SectionEmploymentPreferences, "", markup.Text(p.Value)),
		)
	}
	return sectionEl(resume.SectionEmploymentPreferences, "side-block",
		markup.TextEl("h2", "", l.EmploymentPreferences), dl)
}

func sidebarBody(text string) *html.Node {
	d := describe(text)
	if d.Empty() {
		return nil
	}
	if d.Paragraph != "" {
		return markup.TextEl("p", "para", d.Paragraph)
	}
	ul := markup.El("ul", markup.A{"class": "points"})
	for _, b := range d.Bullets {
		markup.Append(ul, markup.TextEl("li", "", b))
	}
	return ul
}

func sidebarSummary(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionSummary) {
		return nil
	}
	return sectionEl(resume.SectionSummary, "main-block",
		markup.TextEl("h2", "", l.Profile),
		markup.TextEl("p", "para", trim(r.Summary)),
	)
}

func sidebarExperience(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionExperience) {
		return nil
	}
	sec := sectionEl(resume.SectionExperience, "main-block", markup.TextEl("h2", "", l.Experience))
	for _, e := range resume.FilledExperience(r.Experience) {
		markup.Append(sec, itemEl("div", resume.SectionExperience, "item",
			textIf("div", "item-title", e.Position),
			textIf("div", "item-sub", content.JoinNonEmpty(content.DefaultSeparator,
				e.Company, e.Location, period(l, e.StartDate, e.EndDate, e.IsCurrent))),
			sidebarBody(e.Description),
		))
	}
	return sec
}

func sidebarProjects(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionProjects) {
		return nil
	}
	sec := sectionEl(resume.SectionProjects, "main-block", markup.TextEl("h2", "", l.Projects))
	for _, p := range resume.FilledProjects(r.Projects) {
		var link *html.Node
		if href, display, ok := itemLink(p.Link); ok {
			link = markup.Div("item-sub", markup.Link("", href, display))
		}
		markup.Append(sec, itemEl("div", resume.SectionProjects, "item",
			textIf("div", "item-title", p.Name),
			textIf("div", "item-sub", content.JoinNonEmpty(content.DefaultSeparator, p.Role, p.Stack)),
			link,
			sidebarBody(p.Description),
		))
	}
	return sec
}

func sidebarEducation(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionEducation) {
		return nil
	}
	sec := sectionEl(resume.SectionEducation, "main-block", markup.TextEl("h2", "", l.Education))
	for _, e := range resume.FilledEducation(r.Education) {
		markup.Append(sec, itemEl("div", resume.SectionEducation, "item",
			textIf("div", "item-title", e.Institution),
			textIf("div", "item-sub", content.JoinNonEmpty(content.DefaultSeparator,
				content.JoinNonEmpty(", ", e.Degree, e.Field), period(l, e.StartDate, e.EndDate, false))),
		))
	}
	return sec
}

func sidebarCertifications(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionCertifications) {
		return nil
	}
	sec := sectionEl(resume.SectionCertifications, "main-block", markup.TextEl("h2", "", l.Certifications))
	for _, c := range resume.FilledCertifications(r.Certifications) {
		var link *html.Node
		if href, display, ok := itemLink(c.Link); ok {
			link = markup.Div("item-sub", markup.Link("", href, display))
		}
		markup.Append(sec, itemEl("div", resume.SectionCertifications, "item",
			textIf("div", "item-title", c.Name),
			textIf("div", "item-sub", content.JoinNonEmpty(content.DefaultSeparator, c.Issuer, c.Year)),
			link,
		))
	}
	return sec
}

func sidebarActivities(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionActivities) {
		return nil
	}
	sec := sectionEl(resume.SectionActivities, "main-block", markup.TextEl("h2", "", l.Activities))
	for _, a := range resume.FilledActivities(r.Activities) {
		var link *html.Node
		if href, display, ok := itemLink(a.Link); ok {
			link = markup.Div("item-sub", markup.Link("", href, display))
		}
		markup.Append(sec, itemEl("div", resume.SectionActivities, "item",
			textIf("div", "item-title", a.Name),
			textIf("div", "item-sub", content.JoinNonEmpty(content.DefaultSeparator, a.Type, a.Role)),
			link,
			sidebarBody(a.Description),
		))
	}
	return sec
}
