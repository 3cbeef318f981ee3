package templates

import (
	"golang.org/x/net/html"

	"cvrender/internal/content"
	"cvrender/internal/i18n"
	"cvrender/internal/markup"
	"cvrender/internal/resume"
)

const classicCSS = `.tpl-classic{padding:48px 56px;background:#fff}
.tpl-classic .head{display:flex;gap:24px;align-items:center;padding-bottom:18px;border-bottom:3px solid var(--accent)}
.tpl-classic .photo img{width:96px;height:96px;border-radius:50%;object-fit:cover}
.tpl-classic .name{font-size:28px;font-weight:700;color:#111827}
.tpl-classic .position{font-size:16px;color:var(--accent);margin-top:4px}
.tpl-classic .contacts{display:flex;flex-wrap:wrap;gap:4px 16px;margin-top:8px;font-size:12px;color:#4b5563}
.tpl-classic .block{margin-top:20px}
.tpl-classic .block h2{font-size:14px;text-transform:uppercase;letter-spacing:.08em;color:var(--accent);margin-bottom:8px}
.tpl-classic .entry{margin-bottom:12px}
.tpl-classic .entry-head{display:flex;justify-content:space-between;gap:12px}
.tpl-classic .entry-title{font-weight:600}
.tpl-classic .entry-meta{color:#6b7280;font-size:12px;white-space:nowrap}
.tpl-classic .bullets li{position:relative;padding-left:14px;margin-top:2px}
.tpl-classic .bullets li:before{content:"•";position:absolute;left:0;color:var(--accent)}
.tpl-classic .pills{display:flex;flex-wrap:wrap;gap:6px}
.tpl-classic .pill{border:1px solid var(--accent);border-radius:999px;padding:2px 10px;font-size:12px}
.tpl-classic .note{margin-top:6px;color:#4b5563}
.tpl-classic .rows{display:grid;grid-template-columns:180px 1fr;gap:4px 12px}
.tpl-classic .row-label{color:#6b7280}`

// Classic 单栏经典布局：头部 + 按固定顺序排列的分区。
func Classic(r resume.Resume, loc i18n.Locale, accent string) *html.Node {
	l := i18n.For(loc)
	return canvas("classic", accent, classicCSS, "",
		classicHeader(r, l),
		classicSummary(r, l),
		classicExperience(r, l),
		classicProjects(r, l),
		classicSkills(r, resume.SectionTechSkills, l.TechSkills, r.TechSkills),
		classicSkills(r, resume.SectionSoftSkills, l.SoftSkills, r.SoftSkills),
		classicEducation(r, l),
		classicLanguages(r, l),
		classicCertifications(r, l),
		classicActivities(r, l),
		classicPreferences(r, l),
	)
}

func classicHeader(r resume.Resume, l i18n.Labels) *html.Node {
	showContacts := resume.Shows(r, resume.SectionContacts)
	if !r.HasHeader() && !r.ShowPhoto() && !showContacts {
		return nil
	}
	var photo *html.Node
	if r.ShowPhoto() {
		photo = photoEl(r, "photo")
	}
	var contacts *html.Node
	if showContacts {
		contacts = markup.El("div", markup.A{"class": "contacts", "data-section": string(resume.SectionContacts)})
		for _, c := range resume.ContactEntries(r.Contacts) {
			markup.Append(contacts, classicContact(c, l))
		}
	}
	return headerEl("head",
		photo,
		markup.Div("head-text",
			textIf("h1", "name", r.FullName()),
			textIf("div", "position", r.Position),
			contacts,
		),
	)
}

func classicContact(c resume.ContactEntry, l i18n.Labels) *html.Node {
	label := markup.TextEl("span", "contact-label", contactLabel(l, c.Kind)+": ")
	if c.Href == "" {
		return markup.Span("contact", label, markup.Text(c.Value))
	}
	return markup.Span("contact", label, markup.Link("", c.Href, c.Value))
}

func classicBlock(s resume.Section, title string, children ...*html.Node) *html.Node {
	return sectionEl(s, "block", append([]*html.Node{markup.TextEl("h2", "", title)}, children...)...)
}

func classicDescription(text string) *html.Node {
	d := describe(text)
	if len(d.Bullets) > 0 {
		items := make([]*html.Node, 0, len(d.Bullets))
		for _, b := range d.Bullets {
			items = append(items, markup.Text(b))
		}
		return markup.List("bullets", items)
	}
	if d.Paragraph != "" {
		return markup.TextEl("p", "para", d.Paragraph)
	}
	return nil
}

func classicSummary(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionSummary) {
		return nil
	}
	return classicBlock(resume.SectionSummary, l.Summary, markup.TextEl("p", "para", trim(r.Summary)))
}

func classicExperience(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionExperience) {
		return nil
	}
	block := classicBlock(resume.SectionExperience, l.Experience)
	for _, e := range resume.FilledExperience(r.Experience) {
		title := content.JoinNonEmpty(content.DefaultSeparator, e.Position, e.Company)
		meta := content.JoinNonEmpty(content.DefaultSeparator, period(l, e.StartDate, e.EndDate, e.IsCurrent), e.Location)
		markup.Append(block, itemEl("article", resume.SectionExperience, "entry",
			markup.Div("entry-head",
				textIf("h3", "entry-title", title),
				textIf("span", "entry-meta", meta),
			),
			classicDescription(e.Description),
		))
	}
	return block
}

func classicProjects(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionProjects) {
		return nil
	}
	block := classicBlock(resume.SectionProjects, l.Projects)
	for _, p := range resume.FilledProjects(r.Projects) {
		var link *html.Node
		if href, display, ok := itemLink(p.Link); ok {
			link = markup.Link("entry-meta", href, display)
		}
		var role, stack *html.Node
		if hasText(p.Role) {
			role = markup.TextEl("div", "entry-line", l.Role+": "+trim(p.Role))
		}
		if hasText(p.Stack) {
			stack = markup.TextEl("div", "entry-line", l.Stack+": "+trim(p.Stack))
		}
		markup.Append(block, itemEl("article", resume.SectionProjects, "entry",
			markup.Div("entry-head", textIf("h3", "entry-title", p.Name), link),
			role,
			stack,
			classicDescription(p.Description),
		))
	}
	return block
}

func classicSkills(r resume.Resume, s resume.Section, title string, skills resume.Skills) *html.Node {
	if !resume.Shows(r, s) {
		return nil
	}
	pills := make([]*html.Node, 0, len(skills.Tags))
	for _, t := range skills.VisibleTags() {
		pills = append(pills, markup.El("span", markup.A{"class": "pill", "data-item": string(s)}, markup.Text(t)))
	}
	var row *html.Node
	if len(pills) > 0 {
		row = markup.Div("pills", pills...)
	}
	return classicBlock(s, title, row, textIf("p", "note pre", skills.Note))
}

func classicEducation(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionEducation) {
		return nil
	}
	block := classicBlock(resume.SectionEducation, l.Education)
	for _, e := range resume.FilledEducation(r.Education) {
		markup.Append(block, itemEl("article", resume.SectionEducation, "entry",
			markup.Div("entry-head",
				textIf("h3", "entry-title", e.Institution),
				textIf("span", "entry-meta", period(l, e.StartDate, e.EndDate, false)),
			),
			textIf("div", "entry-line", content.JoinNonEmpty(", ", e.Degree, e.Field)),
		))
	}
	return block
}

func classicLanguages(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionLanguages) {
		return nil
	}
	items := make([]*html.Node, 0, len(r.Languages))
	for _, lang := range resume.FilledLanguages(r.Languages) {
		items = append(items, itemEl("span", resume.SectionLanguages, "lang",
			markup.Text(content.JoinNonEmpty(" — ", lang.Name, lang.Level))))
	}
	return classicBlock(resume.SectionLanguages, l.Languages, markup.List("languages", items))
}

func classicCertifications(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionCertifications) {
		return nil
	}
	block := classicBlock(resume.SectionCertifications, l.Certifications)
	for _, c := range resume.FilledCertifications(r.Certifications) {
		var link *html.Node
		if href, display, ok := itemLink(c.Link); ok {
			link = markup.Link("entry-line", href, display)
		}
		markup.Append(block, itemEl("article", resume.SectionCertifications, "entry",
			markup.Div("entry-head",
				textIf("h3", "entry-title", c.Name),
				textIf("span", "entry-meta", c.Year),
			),
			textIf("div", "entry-line", c.Issuer),
			link,
		))
	}
	return block
}

func classicActivities(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionActivities) {
		return nil
	}
	block := classicBlock(resume.SectionActivities, l.Activities)
	for _, a := range resume.FilledActivities(r.Activities) {
		var link *html.Node
		if href, display, ok := itemLink(a.Link); ok {
			link = markup.Link("entry-meta", href, display)
		}
		markup.Append(block, itemEl("article", resume.SectionActivities, "entry",
			markup.Div("entry-head",
				textIf("h3", "entry-title", content.JoinNonEmpty(content.DefaultSeparator, a.Name, a.Role)),
				textIf("span", "entry-meta", a.Type),
			),
			link,
			classicDescription(a.Description),
		))
	}
	return block
}

func classicPreferences(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionEmploymentPreferences) {
		return nil
	}
	rows := markup.Div("rows")
	for _, p := range preferenceRows(l, r.EmploymentPreferences) {
		markup.Append(rows,
			markup.TextEl("span", "row-label", p.Label),
			itemEl("span", resume.SectionEmploymentPreferences, "row-value", markup.Text(p.Value)),
		)
	}
	return classicBlock(resume.SectionEmploymentPreferences, l.EmploymentPreferences, rows)
}
