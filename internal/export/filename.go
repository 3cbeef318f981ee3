package export

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxFilenameRunes caps the name part of a download filename.
const MaxFilenameRunes = 80

const unsafeFilenameChars = `/\:*?"<>|`

// Filename builds "<name>.pdf" from a display name. The name is NFC
// normalized, unsafe characters are removed and whitespace runs become a
// single hyphen. When nothing usable remains it falls back to "resume-<id>".
func Filename(displayName, id string) string {
	name := sanitizeFilename(displayName)
	if name == "" {
		name = sanitizeFilename("resume-" + id)
	}
	if name == "" {
		name = "resume"
	}
	return name + ".pdf"
}

func sanitizeFilename(raw string) string {
	raw = norm.NFC.String(raw)

	var b strings.Builder
	pendingDash := false
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r) || r == '-':
			pendingDash = b.Len() > 0
			continue
		case unicode.IsControl(r), strings.ContainsRune(unsafeFilenameChars, r):
			continue
		case !unicode.IsPrint(r):
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(r)
	}

	name := strings.Trim(b.String(), ".-_")
	runes := []rune(name)
	if len(runes) > MaxFilenameRunes {
		name = strings.TrimRight(string(runes[:MaxFilenameRunes]), ".-_")
	}
	return name
}

// ContentDisposition returns an attachment header value carrying both a
// plain ASCII filename and the RFC 5987 UTF-8 form.
func ContentDisposition(filename string) string {
	ascii := asciiFallback(filename)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ascii, encodeRFC5987(filename))
}

func asciiFallback(filename string) string {
	var b strings.Builder
	for _, r := range filename {
		if r < 0x80 && r >= 0x20 && r != '"' && r != '\\' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func encodeRFC5987(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for _, c := range []byte(s) {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
			strings.IndexByte("!#$&+-.^_`|~", c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}
