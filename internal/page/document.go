// Package page 把模板输出的文档树包装成完整的 HTML 页面：
// 打印页（供无头浏览器导出 PDF）、屏幕预览页和缩略图。
package page

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"golang.org/x/net/html"

	"cvrender/internal/i18n"
	"cvrender/internal/markup"
)

// ReadyMarkerID 是打印页在字体加载完成后插入的元素 id，
// 浏览器驱动等待它出现后再开始打印。
const ReadyMarkerID = "pdf-render-ready"

// PrintOptions configures the print-only document.
type PrintOptions struct {
	Title  string
	Locale i18n.Locale
}

// PreviewOptions configures the on-screen preview document.
type PreviewOptions struct {
	Title      string
	Locale     i18n.Locale
	Background string
}

type documentData struct {
	Lang       string
	Title      string
	Background string
	Body       template.HTML
	ReadyID    string
}

// printDocument 只包含文档本身：A4 零边距、强制打印背景色，没有任何交互元素。
var printDocument = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
@page { size: A4; margin: 0; }
html, body { margin: 0; padding: 0; background: #ffffff; }
* { -webkit-print-color-adjust: exact; print-color-adjust: exact; }
</style>
</head>
<body>
{{.Body}}
<script>
(document.fonts ? document.fonts.ready : Promise.resolve()).then(function () {
  var marker = document.createElement("div");
  marker.id = {{.ReadyID}};
  marker.hidden = true;
  document.body.appendChild(marker);
});
</script>
</body>
</html>
`))

var previewDocument = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
html, body { margin: 0; padding: 0; background: {{.Background}}; }
.preview-stage { display: flex; justify-content: center; padding: 24px 0; }
.preview-stage > * { box-shadow: 0 4px 24px rgba(15, 23, 42, .12); background: #ffffff; }
</style>
</head>
<body>
<div class="preview-stage">{{.Body}}</div>
</body>
</html>
`))

// Print writes the document used by the headless browser for PDF capture.
func Print(w io.Writer, doc *html.Node, opts PrintOptions) error {
	body, err := fragment(doc)
	if err != nil {
		return err
	}
	data := documentData{
		Lang:    string(localeOrDefault(opts.Locale)),
		Title:   opts.Title,
		Body:    body,
		ReadyID: ReadyMarkerID,
	}
	if err := printDocument.Execute(w, data); err != nil {
		return fmt.Errorf("execute print document: %w", err)
	}
	return nil
}

// Preview writes an on-screen preview page around doc (or a thumbnail of it).
func Preview(w io.Writer, doc *html.Node, opts PreviewOptions) error {
	body, err := fragment(doc)
	if err != nil {
		return err
	}
	bg := opts.Background
	if bg == "" {
		bg = "#f1f5f9"
	}
	data := documentData{
		Lang:       string(localeOrDefault(opts.Locale)),
		Title:      opts.Title,
		Background: bg,
		Body:       body,
	}
	if err := previewDocument.Execute(w, data); err != nil {
		return fmt.Errorf("execute preview document: %w", err)
	}
	return nil
}

// Write serializes a tree. Attribute order is fixed at construction time, so
// the same tree always yields the same bytes.
func Write(w io.Writer, n *html.Node) error {
	return markup.Render(w, n)
}

// fragment 序列化文档树。节点内容在序列化时已经转义，因此可以作为 template.HTML 嵌入。
func fragment(doc *html.Node) (template.HTML, error) {
	if doc == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		return "", fmt.Errorf("render document tree: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func localeOrDefault(loc i18n.Locale) i18n.Locale {
	if parsed, ok := i18n.Parse(string(loc)); ok {
		return parsed
	}
	return i18n.Default
}
