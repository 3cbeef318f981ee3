// Package templates 提供简历的多种版式。每个版式独立执行分区门控，
// 输出同一棵文档树，供预览、缩略图和打印页复用。
package templates

import (
	"strings"

	"golang.org/x/net/html"

	"cvrender/internal/i18n"
	"cvrender/internal/resume"
)

// Layout renders a resume into a fixed-width document tree.
type Layout func(r resume.Resume, loc i18n.Locale, accent string) *html.Node

// DefaultKey 是未知或空模板键的回退版式。
const DefaultKey = "classic"

// Template is one registered layout.
type Template struct {
	Key    string
	Titles map[i18n.Locale]string
	Layout Layout
}

// Title returns the localized display name.
func (t Template) Title(loc i18n.Locale) string {
	if v, ok := t.Titles[loc]; ok {
		return v
	}
	return t.Titles[i18n.Default]
}

var registry = []Template{
	{Key: "classic", Layout: Classic, Titles: map[i18n.Locale]string{i18n.EN: "Classic", i18n.RU: "Классический"}},
	{Key: "sidebar", Layout: Sidebar, Titles: map[i18n.Locale]string{i18n.EN: "Sidebar", i18n.RU: "С боковой панелью"}},
	{Key: "timeline", Layout: Timeline, Titles: map[i18n.Locale]string{i18n.EN: "Timeline", i18n.RU: "Хронология"}},
	{Key: "grid", Layout: Grid, Titles: map[i18n.Locale]string{i18n.EN: "Grid", i18n.RU: "Сетка"}},
	{Key: "compact", Layout: Compact, Titles: map[i18n.Locale]string{i18n.EN: "Compact", i18n.RU: "Компактный"}},
	{Key: "ats", Layout: ATS, Titles: map[i18n.Locale]string{i18n.EN: "ATS-friendly", i18n.RU: "Для ATS"}},
	{Key: "modern", Layout: Modern, Titles: map[i18n.Locale]string{i18n.EN: "Modern", i18n.RU: "Современный"}},
}

// Resolve 按键查找模板；空值或未知值回退到 classic。
func Resolve(key string) Template {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, t := range registry {
		if t.Key == key {
			return t
		}
	}
	return registry[0]
}

// Known reports whether key names a registered template.
func Known(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, t := range registry {
		if t.Key == key {
			return true
		}
	}
	return false
}

// All lists registered templates in display order.
func All() []Template {
	out := make([]Template, len(registry))
	copy(out, registry)
	return out
}

// Render picks the resume's template and renders it with its accent color.
func Render(r resume.Resume, loc i18n.Locale) *html.Node {
	return Resolve(r.TemplateKey).Layout(r, loc, r.Accent())
}
