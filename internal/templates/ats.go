package templates

import (
	"golang.org/x/net/html"

	"cvrender/internal/content"
	"cvrender/internal/i18n"
	"cvrender/internal/markup"
	"cvrender/internal/resume"
)

// ATS 版式不使用照片、色块和多栏，只保留线性文本，方便招聘系统解析。
const atsCSS = `.tpl-ats{padding:48px 60px;font-family:Arial,Helvetica,sans-serif;color:#000;background:#fff}
.tpl-ats .name{font-size:22px;font-weight:700}
.tpl-ats .position{font-size:14px;margin-top:2px}
.tpl-ats .contacts{margin-top:6px}
.tpl-ats .block{margin-top:16px}
.tpl-ats .block h2{font-size:13px;font-weight:700;text-transform:uppercase;border-bottom:1px solid #000;padding-bottom:2px;margin-bottom:6px}
.tpl-ats .entry{margin-bottom:8px}
.tpl-ats .entry h3{font-size:13px;font-weight:700}
.tpl-ats .entry ul{list-style:disc;padding-left:20px}
.tpl-ats a{color:#000;text-decoration:underline}`

// ATS renders a linear, single-column resume without photo or decoration.
func ATS(r resume.Resume, loc i18n.Locale, accent string) *html.Node {
	l := i18n.For(loc)
	return canvas("ats", accent, atsCSS, "",
		atsHeader(r),
		atsContacts(r, l),
		atsSummary(r, l),
		atsExperience(r, l),
		atsEducation(r, l),
		atsSkills(r, resume.SectionTechSkills, l.TechSkills, r.TechSkills),
		atsSkills(r, resume.SectionSoftSkills, l.SoftSkills, r.SoftSkills),
		atsProjects(r, l),
		atsCertifications(r, l),
		atsLanguages(r, l),
		atsActivities(r, l),
		atsPreferences(r, l),
	)
}

func atsHeader(r resume.Resume) *html.Node {
	if !r.HasHeader() {
		return nil
	}
	return headerEl("head",
		textIf("h1", "name", r.FullName()),
		textIf("div", "position", r.Position),
	)
}

func atsContacts(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionContacts) {
		return nil
	}
	sec := sectionEl(resume.SectionContacts, "contacts")
	for _, c := range resume.ContactEntries(r.Contacts) {
		line := markup.Div("", markup.Text(contactLabel(l, c.Kind)+": "))
		if c.Href != "" {
			markup.Append(line, markup.Link("", c.Href, c.Value))
		} else {
			markup.Append(line, markup.Text(c.Value))
		}
		markup.Append(sec, line)
	}
	return sec
}

func atsBlock(s resume.Section, title string, children ...*html.Node) *html.Node {
	sec := sectionEl(s, "block", markup.TextEl("h2", "", title))
	return markup.Append(sec, children...)
}

func atsText(text string) *html.Node {
	d := describe(text)
	if len(d.Bullets) == 0 {
		return textIf("p", "para", d.Paragraph)
	}
	ul := markup.El("ul", nil)
	for _, b := range d.Bullets {
		markup.Append(ul, markup.TextEl("li", "", b))
	}
	return ul
}

func atsSummary(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionSummary) {
		return nil
	}
	return atsBlock(resume.SectionSummary, l.Summary, markup.TextEl("p", "para", trim(r.Summary)))
}

func atsExperience(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionExperience) {
		return nil
	}
	sec := atsBlock(resume.SectionExperience, l.Experience)
	for _, e := range resume.FilledExperience(r.Experience) {
		markup.Append(sec, itemEl("div", resume.SectionExperience, "entry",
			textIf("h3", "", content.JoinNonEmpty(", ", e.Position, e.Company)),
			textIf("div", "", content.JoinNonEmpty(" | ", e.Location, period(l, e.StartDate, e.EndDate, e.IsCurrent))),
			atsText(e.Description),
		))
	}
	return sec
}

func atsEducation(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionEducation) {
		return nil
	}
	sec := atsBlock(resume.SectionEducation, l.Education)
	for _, e := range resume.FilledEducation(r.Education) {
		markup.Append(sec, itemEl("div", resume.SectionEducation, "entry",
			textIf("h3", "", e.Institution),
			textIf("div", "", content.JoinNonEmpty(" | ",
				content.JoinNonEmpty(", ", e.Degree, e.Field), period(l, e.StartDate, e.EndDate, false))),
		))
	}
	return sec
}

// atsSkills 把标签写成一句话，而不是胶囊样式。
func atsSkills(r resume.Resume, s resume.Section, title string, skills resume.Skills) *html.Node {
	if !resume.Shows(r, s) {
		return nil
	}
	var sentence *html.Node
	if text := skillSentence(skills); text != "" {
		sentence = itemEl("p", s, "", markup.Text(text))
	}
	return atsBlock(s, title, sentence, textIf("p", "pre", skills.Note))
}

func atsProjects(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionProjects) {
		return nil
	}
	sec := atsBlock(resume.SectionProjects, l.Projects)
	for _, p := range resume.FilledProjects(r.Projects) {
		var role, stack, link *html.Node
		if hasText(p.Role) {
			role = markup.TextEl("div", "", l.Role+": "+trim(p.Role))
		}
		if hasText(p.Stack) {
			stack = markup.TextEl("div", "", l.Stack+": "+trim(p.Stack))
		}
		if href, display, ok := itemLink(p.Link); ok {
			link = markup.Div("", markup.Text(l.Link+": "), markup.Link("", href, display))
		}
		markup.Append(sec, itemEl("div", resume.SectionProjects, "entry",
			textIf("h3", "", p.Name), role, stack, link, atsText(p.Description),
		))
	}
	return sec
}

func atsCertifications(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionCertifications) {
		return nil
	}
	sec := atsBlock(resume.SectionCertifications, l.Certifications)
	for _, c := range resume.FilledCertifications(r.Certifications) {
		var link *html.Node
		if href, display, ok := itemLink(c.Link); ok {
			link = markup.Link("", href, display)
		}
		var issued *html.Node
		if hasText(c.Year) {
			issued = markup.TextEl("div", "", l.Issued+": "+trim(c.Year))
		}
		markup.Append(sec, itemEl("div", resume.SectionCertifications, "entry",
			textIf("h3", "", content.JoinNonEmpty(", ", c.Name, c.Issuer)), issued, link,
		))
	}
	return sec
}

func atsLanguages(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionLanguages) {
		return nil
	}
	sec := atsBlock(resume.SectionLanguages, l.Languages)
	for _, lang := range resume.FilledLanguages(r.Languages) {
		markup.Append(sec, itemEl("div", resume.SectionLanguages, "",
			markup.Text(content.JoinNonEmpty(": ", trim(lang.Name), trim(lang.Level)))))
	}
	return sec
}

func atsActivities(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionActivities) {
		return nil
	}
	sec := atsBlock(resume.SectionActivities, l.Activities)
	for _, a := range resume.FilledActivities(r.Activities) {
		var link *html.Node
		if href, display, ok := itemLink(a.Link); ok {
			link = markup.Link("", href, display)
		}
		markup.Append(sec, itemEl("div", resume.SectionActivities, "entry",
			textIf("h3", "", content.JoinNonEmpty(", ", a.Name, a.Role, a.Type)),
			link,
			atsText(a.Description),
		))
	}
	return sec
}

func atsPreferences(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionEmploymentPreferences) {
		return nil
	}
	return atsBlock(resume.SectionEmploymentPreferences, l.EmploymentPreferences,
		itemEl("p", resume.SectionEmploymentPreferences, "",
			markup.Text(preferenceSentence(l, r.EmploymentPreferences))))
}
