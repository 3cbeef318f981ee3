// Package i18n provides the label vocabulary used by resume templates.
// A locale only changes wording, never which sections are rendered.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale 是模板渲染使用的语言。
type Locale string

const (
	RU Locale = "ru"
	EN Locale = "en"
)

// Default is used when no locale can be negotiated.
const Default = EN

var (
	supported = []language.Tag{language.English, language.Russian}
	matcher   = language.NewMatcher(supported)
)

// Locales returns every supported locale in a stable order.
func Locales() []Locale {
	return []Locale{EN, RU}
}

// Parse 解析路径或查询参数中的语言代码，仅接受受支持的语言。
func Parse(value string) (Locale, bool) {
	switch Locale(strings.ToLower(strings.TrimSpace(value))) {
	case RU:
		return RU, true
	case EN:
		return EN, true
	}
	return "", false
}

// Negotiate picks the best supported locale for an Accept-Language header.
func Negotiate(acceptLanguage string) Locale {
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	if supported[index] == language.Russian {
		return RU
	}
	return EN
}

// Resolve prefers an explicit locale value and falls back to the header.
func Resolve(explicit, acceptLanguage string) Locale {
	if loc, ok := Parse(explicit); ok {
		return loc
	}
	return Negotiate(acceptLanguage)
}
