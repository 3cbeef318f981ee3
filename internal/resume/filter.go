package resume

import (
	"regexp"
	"strings"

	"cvrender/internal/content"
	"cvrender/internal/links"
)

// DefaultAccentColor 是未设置或非法强调色时使用的品牌蓝。
const DefaultAccentColor = "#2563eb"

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// FullName joins last name, first name and patronymic, dropping empty parts.
func (r Resume) FullName() string {
	return content.JoinNonEmpty(" ", r.LastName, r.FirstName, r.Patronymic)
}

// HasHeader reports whether a name or a position is present.
func (r Resume) HasHeader() bool {
	return content.HasAnyText(r.FullName(), r.Position)
}

// Accent returns the accent color, or DefaultAccentColor when it is unset or
// not a plain hex color.
func (r Resume) Accent() string {
	c := strings.TrimSpace(r.AccentColor)
	if hexColor.MatchString(c) {
		return strings.ToLower(c)
	}
	return DefaultAccentColor
}

// Filled reports whether tags or note carry text.
func (s Skills) Filled() bool {
	return content.HasAnyText(s.Tags...) || content.HasText(s.Note)
}

// VisibleTags drops blank tags and keeps input order.
func (s Skills) VisibleTags() []string {
	tags := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Filled 中 relocation 只要被显式回答（true 或 false）就算有内容。
func (p EmploymentPreferences) Filled() bool {
	return content.HasAnyText(p.EmploymentType...) ||
		content.HasAnyText(p.WorkFormat...) ||
		p.Relocation != nil ||
		content.HasAnyText(p.Timezone, p.WorkAuthorization)
}

func (e Experience) Filled() bool {
	return content.HasAnyText(e.Company, e.Position, e.Location, e.StartDate, e.EndDate, e.Description)
}

// 链接只有能规范化时才算内容，模板不会展示非法链接。
func (p Project) Filled() bool {
	return content.HasAnyText(p.Name, p.Role, p.Stack, p.Description) || validLink(p.Link)
}

func (e Education) Filled() bool {
	return content.HasAnyText(e.Institution, e.Degree, e.Field, e.StartDate, e.EndDate)
}

func (l Language) Filled() bool {
	return content.HasAnyText(l.Name, l.Level)
}

func (c Certification) Filled() bool {
	return content.HasAnyText(c.Name, c.Issuer, c.Year) || validLink(c.Link)
}

func (a Activity) Filled() bool {
	return content.HasAnyText(a.Type, a.Name, a.Role, a.Description) || validLink(a.Link)
}

func validLink(raw string) bool {
	_, ok := links.URL(raw)
	return ok
}

type filler interface {
	Filled() bool
}

func keepFilled[T filler](items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.Filled() {
			out = append(out, item)
		}
	}
	return out
}

// FilledExperience 过滤掉占位/空白条目，保持用户排列的顺序。
func FilledExperience(items []Experience) []Experience { return keepFilled(items) }

func FilledProjects(items []Project) []Project { return keepFilled(items) }

func FilledEducation(items []Education) []Education { return keepFilled(items) }

func FilledLanguages(items []Language) []Language { return keepFilled(items) }

func FilledCertifications(items []Certification) []Certification { return keepFilled(items) }

func FilledActivities(items []Activity) []Activity { return keepFilled(items) }

// ContactKind identifies one contact line.
type ContactKind string

const (
	ContactLocation ContactKind = "location"
	ContactEmail    ContactKind = "email"
	ContactPhone    ContactKind = "phone"
	ContactTelegram ContactKind = "telegram"
	ContactGitHub   ContactKind = "github"
	ContactLinkedIn ContactKind = "linkedin"
	ContactWebsite  ContactKind = "website"
)

// ContactEntry is a display-ready contact. Href is empty for plain values.
type ContactEntry struct {
	Kind  ContactKind
	Value string
	Href  string
}

// ContactEntries 返回可展示的联系方式。社交链接一律经过规范化，
// 无法规范化的原始值直接丢弃，绝不原样展示。
func ContactEntries(c Contacts) []ContactEntry {
	entries := make([]ContactEntry, 0, 7)
	if v := strings.TrimSpace(c.Location); v != "" {
		entries = append(entries, ContactEntry{Kind: ContactLocation, Value: v})
	}
	if v := strings.TrimSpace(c.Email); v != "" {
		entries = append(entries, ContactEntry{Kind: ContactEmail, Value: v, Href: "mailto:" + v})
	}
	if v := strings.TrimSpace(c.Phone); v != "" {
		entry := ContactEntry{Kind: ContactPhone, Value: v}
		if digits := phoneDigits(v); digits != "" {
			entry.Href = "tel:" + digits
		}
		entries = append(entries, entry)
	}

	social := []struct {
		kind ContactKind
		link links.Kind
		raw  string
	}{
		{ContactTelegram, links.KindTelegram, c.Telegram},
		{ContactGitHub, links.KindGitHub, c.GitHub},
		{ContactLinkedIn, links.KindLinkedIn, c.LinkedIn},
		{ContactWebsite, links.KindURL, c.Website},
	}
	for _, s := range social {
		href, ok := links.Normalize(s.link, s.raw)
		if !ok {
			continue
		}
		entries = append(entries, ContactEntry{Kind: s.kind, Value: DisplayURL(href), Href: href})
	}
	return entries
}

// DisplayURL strips the scheme, "www." and a trailing slash for display.
func DisplayURL(href string) string {
	out := strings.TrimPrefix(href, "https://")
	out = strings.TrimPrefix(out, "http://")
	out = strings.TrimPrefix(out, "www.")
	return strings.TrimSuffix(out, "/")
}

func phoneDigits(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
