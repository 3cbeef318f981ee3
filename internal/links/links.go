// Package links canonicalizes user supplied contact links.
//
// Every normalizer returns the canonical https URL and true, or "" and false
// when the input cannot be trusted. Templates must treat false as "no link"
// and never fall back to the raw value.
package links

import (
	"net/url"
	"regexp"
	"strings"
)

// MaxURLLength bounds generic URLs.
const MaxURLLength = 2048

// Kind 标识联系方式链接的平台类型。
type Kind string

const (
	KindGitHub   Kind = "github"
	KindTelegram Kind = "telegram"
	KindLinkedIn Kind = "linkedin"
	KindURL      Kind = "url"
)

var (
	dashedHandle     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	underscoreHandle = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

type platform struct {
	hosts     []string
	handle    *regexp.Regexp
	pathStart string
	canonical func(handle string) string
}

var (
	github = platform{
		hosts:     []string{"github.com"},
		handle:    dashedHandle,
		canonical: func(h string) string { return "https://github.com/" + h },
	}
	telegram = platform{
		hosts:     []string{"t.me", "telegram.me"},
		handle:    underscoreHandle,
		canonical: func(h string) string { return "https://t.me/" + h },
	}
	linkedin = platform{
		hosts:     []string{"linkedin.com"},
		handle:    dashedHandle,
		pathStart: "in",
		canonical: func(h string) string { return "https://www.linkedin.com/in/" + h + "/" },
	}
)

// GitHub normalizes a GitHub handle or profile URL.
func GitHub(raw string) (string, bool) { return github.normalize(raw) }

// Telegram normalizes a Telegram handle or t.me / telegram.me URL.
func Telegram(raw string) (string, bool) { return telegram.normalize(raw) }

// LinkedIn normalizes a LinkedIn handle or /in/ profile URL.
func LinkedIn(raw string) (string, bool) { return linkedin.normalize(raw) }

// URL accepts only well-formed http(s) URLs no longer than MaxURLLength.
func URL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > MaxURLLength {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if !isHTTPScheme(u.Scheme) || u.Hostname() == "" {
		return "", false
	}
	u.Scheme = strings.ToLower(u.Scheme)
	out := u.String()
	if len(out) > MaxURLLength {
		return "", false
	}
	return out, true
}

// Normalize dispatches to the normalizer of kind. Unknown kinds are rejected.
func Normalize(kind Kind, raw string) (string, bool) {
	switch kind {
	case KindGitHub:
		return GitHub(raw)
	case KindTelegram:
		return Telegram(raw)
	case KindLinkedIn:
		return LinkedIn(raw)
	case KindURL:
		return URL(raw)
	default:
		return "", false
	}
}

func (p platform) normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > MaxURLLength {
		return "", false
	}

	if handle := strings.TrimPrefix(raw, "@"); p.handle.MatchString(handle) {
		return p.canonical(handle), true
	}

	candidate := raw
	if !strings.Contains(candidate, "://") {
		// 允许省略协议的写法，例如 github.com/octocat。
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return "", false
	}
	if !isHTTPScheme(u.Scheme) || !p.matchesHost(u.Hostname()) {
		return "", false
	}

	segments := pathSegments(u.Path)
	if p.pathStart != "" {
		if len(segments) < 2 || !strings.EqualFold(segments[0], p.pathStart) {
			return "", false
		}
		segments = segments[1:]
	}
	if len(segments) == 0 {
		return "", false
	}

	handle := segments[0]
	if !p.handle.MatchString(handle) {
		return "", false
	}
	return p.canonical(handle), true
}

func (p platform) matchesHost(host string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	for _, h := range p.hosts {
		if host == h {
			return true
		}
	}
	return false
}

func pathSegments(path string) []string {
	raw := strings.Split(strings.Trim(path, "/"), "/")
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func isHTTPScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "http", "https":
		return true
	}
	return false
}
