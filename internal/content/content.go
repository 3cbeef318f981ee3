// Package content holds the text predicates every resume template shares.
// All helpers are pure: they never mutate their input and never panic.
package content

import "strings"

// DefaultSeparator 是 JoinNonEmpty 的默认分隔符。
const DefaultSeparator = " · "

// PeriodSeparator 用于拼接起止日期。
const PeriodSeparator = " — "

// HasText 判断去除首尾空白后是否仍有内容。
func HasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// HasAnyText 只要有一个值满足 HasText 即返回 true。
func HasAnyText(values ...string) bool {
	for _, v := range values {
		if HasText(v) {
			return true
		}
	}
	return false
}

// JoinNonEmpty trims every value, drops the empty ones and joins the rest with sep.
func JoinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, sep)
}

// SplitBullets 将自由文本按行拆分为要点，去掉行首的 "-" 或 "•" 标记。
func SplitBullets(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	bullets := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = stripMarker(line)
		if line == "" {
			continue
		}
		bullets = append(bullets, line)
	}
	return bullets
}

func stripMarker(line string) string {
	for _, marker := range []string{"-", "•"} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker))
		}
	}
	return line
}

// FormatPeriod renders a date range. A current position always ends with
// presentLabel, even when start is empty.
func FormatPeriod(start, end string, isCurrent bool, presentLabel string) string {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)

	if start == "" && end == "" {
		// 没有任何日期时不输出 "— Present"。
		return ""
	}
	if isCurrent {
		return start + PeriodSeparator + presentLabel
	}
	if start != "" && end != "" {
		return start + PeriodSeparator + end
	}
	if start != "" {
		return start
	}
	return end
}
