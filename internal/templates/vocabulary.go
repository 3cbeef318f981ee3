package templates

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"cvrender/internal/content"
	"cvrender/internal/i18n"
	"cvrender/internal/links"
	"cvrender/internal/resume"
)

func hasText(s string) bool { return content.HasText(s) }

func trim(s string) string { return strings.TrimSpace(s) }

// description is the shaped form of a free-text description: bullet lines,
// or the verbatim text when no bullet survives splitting.
type description struct {
	Bullets   []string
	Paragraph string
}

func (d description) Empty() bool {
	return len(d.Bullets) == 0 && d.Paragraph == ""
}

func describe(text string) description {
	bullets := content.SplitBullets(text)
	if len(bullets) > 0 {
		return description{Bullets: bullets}
	}
	if hasText(text) {
		return description{Paragraph: trim(text)}
	}
	return description{}
}

// period formats a range with the localized "present" label.
func period(l i18n.Labels, start, end string, current bool) string {
	return content.FormatPeriod(start, end, current, l.Present)
}

// itemLink normalizes a project/certification/activity link for display.
func itemLink(raw string) (href, display string, ok bool) {
	href, ok = links.URL(raw)
	if !ok {
		return "", "", false
	}
	return href, resume.DisplayURL(href), true
}

func contactLabel(l i18n.Labels, kind resume.ContactKind) string {
	switch kind {
	case resume.ContactLocation:
		return l.Location
	case resume.ContactEmail:
		return l.Email
	case resume.ContactPhone:
		return l.Phone
	case resume.ContactTelegram:
		return l.Telegram
	case resume.ContactGitHub:
		return l.GitHub
	case resume.ContactLinkedIn:
		return l.LinkedIn
	case resume.ContactWebsite:
		return l.Website
	}
	return ""
}

// preference is one "label: value" row of the employment preferences block.
type preference struct {
	Label string
	Value string
}

// preferenceRows 只输出有值的字段；relocation 只在显式回答时输出。
func preferenceRows(l i18n.Labels, p resume.EmploymentPreferences) []preference {
	rows := make([]preference, 0, 5)
	if v := strings.Join(l.Terms(p.EmploymentType), ", "); v != "" {
		rows = append(rows, preference{Label: l.EmploymentType, Value: v})
	}
	if v := strings.Join(l.Terms(p.WorkFormat), ", "); v != "" {
		rows = append(rows, preference{Label: l.WorkFormat, Value: v})
	}
	if p.Relocation != nil {
		rows = append(rows, preference{Label: l.Relocation, Value: l.YesNo(*p.Relocation)})
	}
	if hasText(p.Timezone) {
		rows = append(rows, preference{Label: l.Timezone, Value: trim(p.Timezone)})
	}
	if hasText(p.WorkAuthorization) {
		rows = append(rows, preference{Label: l.WorkAuthorization, Value: trim(p.WorkAuthorization)})
	}
	return rows
}

// preferenceSentence summarizes preferences in one sentence, e.g.
// "Open to full-time, remote; ready to relocate; timezone UTC+3; EU citizen."
func preferenceSentence(l i18n.Labels, p resume.EmploymentPreferences) string {
	parts := make([]string, 0, 4)
	terms := append(l.Terms(p.EmploymentType), l.Terms(p.WorkFormat)...)
	if len(terms) > 0 {
		parts = append(parts, l.OpenTo+" "+strings.Join(terms, ", "))
	}
	if p.Relocation != nil {
		if *p.Relocation {
			parts = append(parts, l.ReadyToRelocate)
		} else {
			parts = append(parts, l.NotReadyRelocate)
		}
	}
	if hasText(p.Timezone) {
		parts = append(parts, l.PreferredTimezone+" "+trim(p.Timezone))
	}
	if hasText(p.WorkAuthorization) {
		parts = append(parts, trim(p.WorkAuthorization))
	}
	if len(parts) == 0 {
		return ""
	}
	sentence := strings.Join(parts, "; ")
	return capitalize(sentence) + "."
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// skillSentence renders tags as one comma separated sentence for ATS output.
func skillSentence(s resume.Skills) string {
	tags := s.VisibleTags()
	if len(tags) == 0 {
		return ""
	}
	return strings.Join(tags, ", ") + "."
}
