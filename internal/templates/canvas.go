package templates

import (
	"fmt"

	"golang.org/x/net/html"

	"cvrender/internal/markup"
	"cvrender/internal/resume"
)

// A4 画布尺寸（96 DPI）。内容可以撑高页面，但不会低于最小高度。
const (
	PageWidth     = 794
	PageMinHeight = 1123
)

// baseCSS is shared by every layout: box model, fonts and pill/link resets.
const baseCSS = `.resume{box-sizing:border-box;position:relative;overflow:hidden;font-family:"Inter","Segoe UI",Arial,sans-serif;color:#1f2937;font-size:13px;line-height:1.45;-webkit-print-color-adjust:exact;print-color-adjust:exact}
.resume *{box-sizing:border-box}
.resume h1,.resume h2,.resume h3,.resume p,.resume ul{margin:0;padding:0}
.resume ul{list-style:none}
.resume a{color:var(--accent);text-decoration:none}
.resume .pre{white-space:pre-line}
.resume .para{white-space:pre-wrap}`

// canvas 创建模板根节点：固定宽度、最小高度，并通过 CSS 变量注入强调色。
func canvas(key, accent, css, extraStyle string, children ...*html.Node) *html.Node {
	style := markup.Styles(
		"--accent:"+accent,
		fmt.Sprintf("width:%dpx", PageWidth),
		fmt.Sprintf("min-height:%dpx", PageMinHeight),
		extraStyle,
	)
	root := markup.El("div", markup.A{
		"class":         "resume tpl-" + key,
		"data-template": key,
		"style":         style,
	}, markup.Style(baseCSS+"\n"+css))
	return markup.Append(root, children...)
}

// sectionEl tags a section so preview tooling and tests can locate it.
func sectionEl(s resume.Section, class string, children ...*html.Node) *html.Node {
	return markup.El("section", markup.A{"class": class, "data-section": string(s)}, children...)
}

// itemEl tags one rendered list element of section s.
func itemEl(tag string, s resume.Section, class string, children ...*html.Node) *html.Node {
	attrs := markup.A{"data-item": string(s)}
	if class != "" {
		attrs["class"] = class
	}
	return markup.El(tag, attrs, children...)
}

func headerEl(class string, children ...*html.Node) *html.Node {
	return markup.El("header", markup.A{"class": class, "data-block": "header"}, children...)
}

func photoEl(r resume.Resume, class string) *html.Node {
	return markup.El("div", markup.A{"class": class, "data-section": string(resume.SectionPhoto)},
		markup.El("img", markup.A{"src": r.Photo, "alt": r.FullName()}),
	)
}

// textIf returns a text element only when text is non-blank.
func textIf(tag, class, text string) *html.Node {
	if !hasText(text) {
		return nil
	}
	return markup.TextEl(tag, class, trim(text))
}
