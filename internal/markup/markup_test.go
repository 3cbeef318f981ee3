package markup

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestElSkipsNilAndSortsAttributes(t *testing.T) {
	n := El("div", A{"style": "color:red", "class": "box", "data-section": "summary"},
		nil,
		TextEl("p", "", "a < b"),
		nil,
	)
	got := String(n)
	want := `<div class="box" data-section="summary" style="color:red"><p>a &lt; b</p></div>`
	if got != want {
		t.Fatalf("unexpected markup\n got: %s\nwant: %s", got, want)
	}
}

func TestStyleIsRaw(t *testing.T) {
	got := String(Style(".a > .b { color: red }"))
	if got != "<style>.a > .b { color: red }</style>" {
		t.Fatalf("style content should not be escaped: %s", got)
	}
}

func TestListOmitsEmpty(t *testing.T) {
	if List("bullets", nil) != nil {
		t.Fatal("empty list should be nil")
	}
	got := String(List("bullets", []*html.Node{Text("one"), Text("two")}))
	if got != `<ul class="bullets"><li>one</li><li>two</li></ul>` {
		t.Fatalf("unexpected list: %s", got)
	}
}

func TestSetAttrReplacesAndKeepsOrder(t *testing.T) {
	n := El("div", A{"class": "a"})
	SetAttr(n, "style", "x")
	SetAttr(n, "class", "b")
	SetAttr(n, "aria-hidden", "true")
	if got := String(n); got != `<div aria-hidden="true" class="b" style="x"></div>` {
		t.Fatalf("unexpected attributes: %s", got)
	}
}

func TestQueries(t *testing.T) {
	root := Div("page",
		El("section", A{"data-section": "summary", "class": "section"}, TextEl("h2", "title", "Summary")),
		Style(".x{}"),
		Link("contact link", "https://github.com/octocat", "github.com/octocat"),
	)
	if len(ByAttr(root, "data-section", "summary")) != 1 {
		t.Fatal("expected summary section")
	}
	if links := ByClass(root, "link"); len(links) != 1 || GetAttr(links[0], "href") != "https://github.com/octocat" {
		t.Fatal("expected one link")
	}
	if text := TextContent(root); strings.Contains(text, ".x{}") || !strings.Contains(text, "Summary") {
		t.Fatalf("unexpected text content %q", text)
	}
}

func TestStyles(t *testing.T) {
	if got := Styles("width:794px;", " ", "color:#fff"); got != "width:794px;color:#fff" {
		t.Fatalf("unexpected styles %q", got)
	}
}
