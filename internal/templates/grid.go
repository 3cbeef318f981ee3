package templates

import (
	"golang.org/x/net/html"

	"cvrender/internal/content"
	"cvrender/internal/i18n"
	"cvrender/internal/markup"
	"cvrender/internal/resume"
)

const gridCSS = `.tpl-grid{padding:36px;background:#f3f4f6}
.tpl-grid .banner{display:flex;align-items:center;gap:20px;background:var(--accent);color:#fff;border-radius:14px;padding:24px 28px}
.tpl-grid .banner a{color:#fff}
.tpl-grid .photo img{width:84px;height:84px;border-radius:14px;object-fit:cover}
.tpl-grid .name{font-size:26px;font-weight:700}
.tpl-grid .position{opacity:.9;margin-top:2px}
.tpl-grid .cells{display:grid;grid-template-columns:1fr 1fr;gap:14px;margin-top:14px}
.tpl-grid .card{background:#fff;border-radius:12px;padding:16px 18px}
.tpl-grid .card.wide{grid-column:1 / span 2}
.tpl-grid .card h2{font-size:13px;font-weight:700;color:var(--accent);margin-bottom:8px}
.tpl-grid .tile{padding:8px 0;border-top:1px dashed #e5e7eb}
.tpl-grid .tile:first-of-type{border-top:0;padding-top:0}
.tpl-grid .tile-top{display:flex;justify-content:space-between;gap:8px;font-weight:600}
.tpl-grid .tile-top small{font-weight:400;color:#6b7280}
.tpl-grid .muted{color:#6b7280;font-size:12px}
.tpl-grid .dots{list-style:disc;padding-left:18px}
.tpl-grid .badge{display:inline-block;border-radius:6px;background:#f3f4f6;padding:2px 8px;margin:0 4px 4px 0;font-size:12px}
.tpl-grid .contact-grid{display:grid;grid-template-columns:1fr 1fr;gap:4px 12px;font-size:12px}`

// Grid 卡片网格布局：每个分区是一张卡片，长内容分区横跨两列。
func Grid(r resume.Resume, loc i18n.Locale, accent string) *html.Node {
	l := i18n.For(loc)
	cells := markup.Div("cells",
		gridContacts(r, l),
		gridSummary(r, l),
		gridExperience(r, l),
		gridProjects(r, l),
		gridSkills(r, resume.SectionTechSkills, l.TechSkills, r.TechSkills),
		gridSkills(r, resume.SectionSoftSkills, l.SoftSkills, r.SoftSkills),
		gridEducation(r, l),
		gridLanguages(r, l),
		gridCertifications(r, l),
		gridPreferences(r, l),
		gridActivities(r, l),
	)
	if cells.FirstChild == nil {
		cells = nil
	}
	return canvas("grid", accent, gridCSS, "", gridBanner(r), cells)
}

func gridBanner(r resume.Resume) *html.Node {
	if !r.HasHeader() && !r.ShowPhoto() {
		return nil
	}
	var photo *html.Node
	if r.ShowPhoto() {
		photo = photoEl(r, "photo")
	}
	return headerEl("banner", photo, markup.Div("",
		textIf("h1", "name", r.FullName()),
		textIf("div", "position", r.Position),
	))
}

func gridCard(s resume.Section, wide bool, title string) *html.Node {
	class := "card"
	if wide {
		class = "card wide"
	}
	return sectionEl(s, class, markup.TextEl("h2", "", title))
}

func gridText(text string) *html.Node {
	d := describe(text)
	if d.Empty() {
		return nil
	}
	if len(d.Bullets) == 0 {
		return markup.TextEl("p", "para", d.Paragraph)
	}
	items := make([]*html.Node, len(d.Bullets))
	for i, b := range d.Bullets {
		items[i] = markup.Text(b)
	}
	return markup.List("dots", items)
}

func gridTile(s resume.Section, title, aside string, children ...*html.Node) *html.Node {
	var top *html.Node
	if hasText(title) || hasText(aside) {
		top = markup.Div("tile-top", textIf("span", "", title), textIf("small", "", aside))
	}
	tile := itemEl("div", s, "tile", top)
	return markup.Append(tile, children...)
}

func gridContacts(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionContacts) {
		return nil
	}
	list := markup.Div("contact-grid")
	for _, c := range resume.ContactEntries(r.Contacts) {
		value := markup.Text(c.Value)
		if c.Href != "" {
			value = markup.Link("", c.Href, c.Value)
		}
		markup.Append(list,
			markup.TextEl("span", "muted", contactLabel(l, c.Kind)),
			markup.Span("", value),
		)
	}
	return markup.Append(gridCard(resume.SectionContacts, true, l.Contacts), list)
}

func gridSummary(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionSummary) {
		return nil
	}
	return markup.Append(gridCard(resume.SectionSummary, true, l.Summary),
		markup.TextEl("p", "para", trim(r.Summary)))
}

func gridExperience(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionExperience) {
		return nil
	}
	card := gridCard(resume.SectionExperience, true, l.Experience)
	for _, e := range resume.FilledExperience(r.Experience) {
		markup.Append(card, gridTile(resume.SectionExperience,
			content.JoinNonEmpty(content.DefaultSeparator, e.Position, e.Company),
			period(l, e.StartDate, e.EndDate, e.IsCurrent),
			textIf("div", "muted", e.Location),
			gridText(e.Description),
		))
	}
	return card
}

func gridProjects(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionProjects) {
		return nil
	}
	card := gridCard(resume.SectionProjects, true, l.Projects)
	for _, p := range resume.FilledProjects(r.Projects) {
		var link *html.Node
		if href, display, ok := itemLink(p.Link); ok {
			link = markup.Div("muted", markup.Link("", href, display))
		}
		markup.Append(card, gridTile(resume.SectionProjects, p.Name, p.Role,
			textIf("div", "muted", p.Stack),
			link,
			gridText(p.Description),
		))
	}
	return card
}

func gridSkills(r resume.Resume, s resume.Section, title string, skills resume.Skills) *html.Node {
	if !resume.Shows(r, s) {
		return nil
	}
	card := gridCard(s, false, title)
	var badges *html.Node
	if tags := skills.VisibleTags(); len(tags) > 0 {
		badges = markup.Div("")
		for _, t := range tags {
			markup.Append(badges, itemEl("span", s, "badge", markup.Text(t)))
		}
	}
	return markup.Append(card, badges, textIf("p", "muted pre", skills.Note))
}

func gridEducation(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionEducation) {
		return nil
	}
	card := gridCard(resume.SectionEducation, false, l.Education)
	for _, e := range resume.FilledEducation(r.Education) {
		markup.Append(card, gridTile(resume.SectionEducation, e.Institution,
			period(l, e.StartDate, e.EndDate, false),
			textIf("div", "muted", content.JoinNonEmpty(", ", e.Degree, e.Field)),
		))
	}
	return card
}

func gridLanguages(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionLanguages) {
		return nil
	}
	card := gridCard(resume.SectionLanguages, false, l.Languages)
	for _, lang := range resume.FilledLanguages(r.Languages) {
		markup.Append(card, gridTile(resume.SectionLanguages, lang.Name, lang.Level))
	}
	return card
}

func gridCertifications(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionCertifications) {
		return nil
	}
	card := gridCard(resume.SectionCertifications, false, l.Certifications)
	for _, c := range resume.FilledCertifications(r.Certifications) {
		var link *html.Node
		if href, display, ok := itemLink(c.Link); ok {
			link = markup.Div("muted", markup.Link("", href, display))
		}
		markup.Append(card, gridTile(resume.SectionCertifications, c.Name, c.Year,
			textIf("div", "muted", c.Issuer),
			link,
		))
	}
	return card
}

func gridPreferences(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionEmploymentPreferences) {
		return nil
	}
	card := gridCard(resume.SectionEmploymentPreferences, false, l.EmploymentPreferences)
	for _, p := range preferenceRows(l, r.EmploymentPreferences) {
		markup.Append(card, gridTile(resume.SectionEmploymentPreferences, p.Label, p.Value))
	}
	return card
}

func gridActivities(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionActivities) {
		return nil
	}
	card := gridCard(resume.SectionActivities, true, l.Activities)
	for _, a := range resume.FilledActivities(r.Activities) {
		var link *html.Node
		if href, display, ok := itemLink(a.Link); ok {
			link = markup.Div("muted", markup.Link("", href, display))
		}
		markup.Append(card, gridTile(resume.SectionActivities,
			content.JoinNonEmpty(content.DefaultSeparator, a.Name, a.Role), a.Type,
			link,
			gridText(a.Description),
		))
	}
	return card
}
