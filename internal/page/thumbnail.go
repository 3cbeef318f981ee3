package page

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/net/html"

	"cvrender/internal/markup"
	"cvrender/internal/templates"
)

// FallbackScale 在容器宽度未知（<=0）时使用。
const FallbackScale = 0.18

const (
	roleAttr  = "data-role"
	roleClip  = "thumbnail-clip"
	roleScale = "thumbnail-scale"
)

// ThumbnailScale returns max(0, width-padding)/PageWidth, or FallbackScale
// when the container has no width yet.
func ThumbnailScale(containerWidth, padding float64) float64 {
	if containerWidth <= 0 || math.IsNaN(containerWidth) {
		return FallbackScale
	}
	inner := math.Max(0, containerWidth-padding)
	return inner / templates.PageWidth
}

// Thumbnail wraps doc in a clipping box and a uniform scale transform. The
// document tree itself is not modified. A height <= 0 clips to one scaled page.
func Thumbnail(doc *html.Node, containerWidth, padding, height float64) *html.Node {
	scale := ThumbnailScale(containerWidth, padding)
	if height <= 0 {
		height = templates.PageMinHeight * scale
	}
	width := templates.PageWidth * scale

	inner := markup.El("div", markup.A{
		roleAttr: roleScale,
		"style": markup.Styles(
			fmt.Sprintf("width:%dpx", templates.PageWidth),
			"transform:scale("+formatFloat(scale)+")",
			"transform-origin:top left",
		),
	}, doc)
	return markup.El("div", markup.A{
		roleAttr: roleClip,
		"style": markup.Styles(
			"width:"+formatFloat(width)+"px",
			"height:"+formatFloat(height)+"px",
			"overflow:hidden",
			"position:relative",
		),
	}, inner)
}

// StripThumbnail 去掉缩略图包装层，返回其中的文档树；不是缩略图时原样返回。
func StripThumbnail(n *html.Node) *html.Node {
	for n != nil && isWrapper(n) {
		child := firstElement(n)
		if child == nil {
			return nil
		}
		n.RemoveChild(child)
		n = child
	}
	return n
}

func isWrapper(n *html.Node) bool {
	role := markup.GetAttr(n, roleAttr)
	return n.Type == html.ElementNode && (role == roleClip || role == roleScale)
}

func firstElement(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
