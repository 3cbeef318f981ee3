package templates

import (
	"golang.org/x/net/html"

	"cvrender/internal/content"
	"cvrender/internal/i18n"
	"cvrender/internal/markup"
	"cvrender/internal/resume"
)

const timelineCSS = `.tpl-timeline{padding:44px 52px;background:#fcfcfd}
.tpl-timeline .head{text-align:center;margin-bottom:10px}
.tpl-timeline .photo img{width:88px;height:88px;border-radius:50%;border:3px solid var(--accent);object-fit:cover}
.tpl-timeline .name{font-size:30px;font-weight:300;letter-spacing:.02em}
.tpl-timeline .position{color:var(--accent);font-weight:600;text-transform:uppercase;font-size:12px;letter-spacing:.15em;margin-top:6px}
.tpl-timeline .contacts{text-align:center;font-size:12px;color:#4b5563;margin-bottom:8px}
.tpl-timeline .contacts .sep{margin:0 6px;color:#d1d5db}
.tpl-timeline .part{margin-top:22px}
.tpl-timeline .part-title{font-size:13px;font-weight:700;text-transform:uppercase;letter-spacing:.12em;margin-bottom:10px}
.tpl-timeline .track{border-left:2px solid var(--accent);margin-left:110px;padding-left:20px}
.tpl-timeline .stop{position:relative;margin-bottom:14px}
.tpl-timeline .stop:before{content:"";position:absolute;left:-27px;top:4px;width:10px;height:10px;border-radius:50%;background:var(--accent)}
.tpl-timeline .when{position:absolute;left:-134px;width:100px;text-align:right;font-size:11px;color:#6b7280}
.tpl-timeline .what{font-weight:600}
.tpl-timeline .where{color:#4b5563;font-size:12px}
.tpl-timeline .marks{list-style:square;padding-left:16px;margin-top:4px}
.tpl-timeline .chips span{display:inline-block;background:#eef2ff;color:#1f2937;border-radius:3px;padding:1px 8px;margin:0 4px 4px 0;font-size:12px}
.tpl-timeline .kv{display:flex;gap:8px;font-size:12px}
.tpl-timeline .kv b{min-width:160px;color:#6b7280;font-weight:500}`

// Timeline 时间轴布局：经历和教育按用户顺序挂在一条竖线上，日期放在左侧。
func Timeline(r resume.Resume, loc i18n.Locale, accent string) *html.Node {
	l := i18n.For(loc)
	return canvas("timeline", accent, timelineCSS, "",
		timelineHeader(r),
		timelineContacts(r),
		timelineSummary(r, l),
		timelineExperience(r, l),
		timelineEducation(r, l),
		timelineProjects(r, l),
		timelineSkills(r, resume.SectionTechSkills, l.TechSkills, r.TechSkills),
		timelineSkills(r, resume.SectionSoftSkills, l.SoftSkills, r.SoftSkills),
		timelineLanguages(r, l),
		timelineCertifications(r, l),
		timelineActivities(r, l),
		timelinePreferences(r, l),
	)
}

func timelineHeader(r resume.Resume) *html.Node {
	if !r.HasHeader() && !r.ShowPhoto() {
		return nil
	}
	var photo *html.Node
	if r.ShowPhoto() {
		photo = photoEl(r, "photo")
	}
	return headerEl("head", photo,
		textIf("h1", "name", r.FullName()),
		textIf("div", "position", r.Position),
	)
}

// timelineContacts 单行展示联系方式，不带标签。
func timelineContacts(r resume.Resume) *html.Node {
	if !resume.Shows(r, resume.SectionContacts) {
		return nil
	}
	sec := sectionEl(resume.SectionContacts, "contacts")
	for i, c := range resume.ContactEntries(r.Contacts) {
		if i > 0 {
			markup.Append(sec, markup.TextEl("span", "sep", "|"))
		}
		if c.Href != "" {
			markup.Append(sec, markup.Link("", c.Href, c.Value))
		} else {
			markup.Append(sec, markup.TextEl("span", "", c.Value))
		}
	}
	return sec
}

func timelinePart(s resume.Section, title string, children ...*html.Node) *html.Node {
	sec := sectionEl(s, "part", markup.TextEl("h2", "part-title", title))
	return markup.Append(sec, children...)
}

func timelineNotes(text string) *html.Node {
	d := describe(text)
	switch {
	case len(d.Bullets) > 0:
		ul := markup.El("ul", markup.A{"class": "marks"})
		for _, b := range d.Bullets {
			markup.Append(ul, markup.TextEl("li", "", b))
		}
		return ul
	case d.Paragraph != "":
		return markup.TextEl("p", "para", d.Paragraph)
	default:
		return nil
	}
}

func timelineStop(s resume.Section, when string, children ...*html.Node) *html.Node {
	stop := itemEl("div", s, "stop", textIf("span", "when", when))
	return markup.Append(stop, children...)
}

func timelineSummary(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionSummary) {
		return nil
	}
	return timelinePart(resume.SectionSummary, l.Summary, markup.TextEl("p", "para", trim(r.Summary)))
}

func timelineExperience(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionExperience) {
		return nil
	}
	track := markup.Div("track")
	for _, e := range resume.FilledExperience(r.Experience) {
		markup.Append(track, timelineStop(resume.SectionExperience,
			period(l, e.StartDate, e.EndDate, e.IsCurrent),
			textIf("div", "what", e.Position),
			textIf("div", "where", content.JoinNonEmpty(", ", e.Company, e.Location)),
			timelineNotes(e.Description),
		))
	}
	return timelinePart(resume.SectionExperience, l.Experience, track)
}

func timelineEducation(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionEducation) {
		return nil
	}
	track := markup.Div("track")
	for _, e := range resume.FilledEducation(r.Education) {
		markup.Append(track, timelineStop(resume.SectionEducation,
			period(l, e.StartDate, e.EndDate, false),
			textIf("div", "what", content.JoinNonEmpty(", ", e.Degree, e.Field)),
			textIf("div", "where", e.Institution),
		))
	}
	return timelinePart(resume.SectionEducation, l.Education, track)
}

func timelineProjects(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionProjects) {
		return nil
	}
	track := markup.Div("track")
	for _, p := range resume.FilledProjects(r.Projects) {
		var link *html.Node
		if href, display, ok := itemLink(p.Link); ok {
			link = markup.Div("where", markup.Link("", href, display))
		}
		markup.Append(track, timelineStop(resume.SectionProjects, "",
			textIf("div", "what", p.Name),
			textIf("div", "where", content.JoinNonEmpty(content.DefaultSeparator, p.Role, p.Stack)),
			link,
			timelineNotes(p.Description),
		))
	}
	return timelinePart(resume.SectionProjects, l.Projects, track)
}

func timelineSkills(r resume.Resume, s resume.Section, title string, skills resume.Skills) *html.Node {
	if !resume.Shows(r, s) {
		return nil
	}
	chips := markup.Div("chips")
	for _, t := range skills.VisibleTags() {
		markup.Append(chips, itemEl("span", s, "", markup.Text(t)))
	}
	if chips.FirstChild == nil {
		chips = nil
	}
	return timelinePart(s, title, chips, textIf("p", "where pre", skills.Note))
}

func timelineLanguages(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionLanguages) {
		return nil
	}
	sec := timelinePart(resume.SectionLanguages, l.Languages)
	for _, lang := range resume.FilledLanguages(r.Languages) {
		markup.Append(sec, itemEl("div", resume.SectionLanguages, "kv",
			textIf("b", "", lang.Name),
			textIf("span", "", lang.Level),
		))
	}
	return sec
}

func timelineCertifications(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionCertifications) {
		return nil
	}
	track := markup.Div("track")
	for _, c := range resume.FilledCertifications(r.Certifications) {
		var link *html.Node
		if href, display, ok := itemLink(c.Link); ok {
			link = markup.Div("where", markup.Link("", href, display))
		}
		markup.Append(track, timelineStop(resume.SectionCertifications, c.Year,
			textIf("div", "what", c.Name),
			textIf("div", "where", c.Issuer),
			link,
		))
	}
	return timelinePart(resume.SectionCertifications, l.Certifications, track)
}

func timelineActivities(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionActivities) {
		return nil
	}
	track := markup.Div("track")
	for _, a := range resume.FilledActivities(r.Activities) {
		var link *html.Node
		if href, display, ok := itemLink(a.Link); ok {
			link = markup.Div("where", markup.Link("", href, display))
		}
		markup.Append(track, timelineStop(resume.SectionActivities, a.Type,
			textIf("div", "what", a.Name),
			textIf("div", "where", a.Role),
			link,
			timelineNotes(a.Description),
		))
	}
	return timelinePart(resume.SectionActivities, l.Activities, track)
}

func timelinePreferences(r resume.Resume, l i18n.Labels) *html.Node {
	if !resume.Shows(r, resume.SectionEmploymentPreferences) {
		return nil
	}
	sec := timelinePart(resume.SectionEmploymentPreferences, l.EmploymentPreferences)
	for _, p := range preferenceRows(l, r.EmploymentPreferences) {
		markup.Append(sec, itemEl("div", resume.SectionEmploymentPreferences, "kv",
			markup.TextEl("b", "", p.Label),
			markup.TextEl("span", "", p.Value),
		))
	}
	return sec
}
