// Package templates renders the slider page and its htmx fragments.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/aouyang1/imageslider/carousel"
)

const (
	pageTitle       = "Image Slider"
	pageDescription = "A simple dynamic image slider/carousel with Unsplash."

	// refreshEvery is how often the browser re-renders the carousel fragment.
	refreshEvery = "1s"
)

// htmlWriter keeps the first write error so components can write freely and
// check once at the end.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

func (hw *htmlWriter) attr(name, value string) {
	hw.raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

func (hw *htmlWriter) urlAttr(name, value string) {
	hw.attr(name, string(templ.URL(value)))
}

// Carousel renders the viewport and the play/pause control for one snapshot.
// Every image is rendered; only the one at the current index is visible.
func Carousel(snap carousel.Snapshot) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<div id="carousel" class="carousel"`)
		hw.attr("hx-get", "/carousel")
		hw.attr("hx-trigger", "every "+refreshEvery)
		hw.attr("hx-swap", "outerHTML")
		hw.attr("data-phase", snap.Phase.String())
		hw.raw(">\n")

		hw.raw(`  <div class="carousel-content">` + "\n")
		if len(snap.Images) == 0 {
			hw.raw(`    <p class="carousel-loading">`)
			hw.text(loadingText)
			hw.raw("</p>\n")
		}
		for i, image := range snap.Images {
			renderItem(hw, i, snap.Index, image)
		}
		hw.raw("  </div>\n")

		renderToggle(hw, snap.Playing)

		hw.raw("</div>\n")
		return hw.err
	})
}

func renderItem(hw *htmlWriter, index, current int, image carousel.ImageRecord) {
	hw.raw("    <div")
	hw.attr("id", itemDOMID(index))
	hw.attr("class", itemClass(index, current))
	hw.attr("data-key", image.ID)
	if index != current {
		hw.raw(` hidden aria-hidden="true"`)
	}
	hw.raw(">\n")

	hw.raw("      <img")
	hw.urlAttr("src", imageURL(image))
	hw.attr("alt", altText(image))
	hw.raw(` width="800" height="400" class="carousel-image" />` + "\n")

	hw.raw(`      <div class="carousel-caption">` + "\n")
	hw.raw("        <h2>")
	hw.text(authorName(image))
	hw.raw("</h2>\n")
	hw.raw("        <p>")
	hw.text(captionText(image))
	hw.raw("</p>\n")
	hw.raw("      </div>\n")

	hw.raw("    </div>\n")
}

func renderToggle(hw *htmlWriter, playing bool) {
	label := toggleLabel(playing)

	hw.raw(`  <div class="carousel-controls">` + "\n")
	hw.raw(`    <button type="button" class="carousel-toggle"`)
	hw.attr("hx-post", "/carousel/toggle")
	hw.attr("hx-target", "#carousel")
	hw.attr("hx-swap", "outerHTML")
	hw.attr("title", label)
	hw.raw(">")
	hw.raw("<i")
	hw.attr("class", toggleIcon(playing))
	hw.raw("></i>")
	hw.raw(`<span class="sr-only">`)
	hw.text(label)
	hw.raw("</span></button>\n")
	hw.raw("  </div>\n")
}

// Page renders the full document around the carousel.
func Page(snap carousel.Snapshot) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(pageHead)
		hw.raw(`  <main class="slider">` + "\n")
		hw.raw("    <h1>")
		hw.text(pageTitle)
		hw.raw("</h1>\n")
		hw.raw(`    <p class="subtitle">`)
		hw.text(pageDescription)
		hw.raw("</p>\n")
		if hw.err != nil {
			return hw.err
		}

		if err := Carousel(snap).Render(ctx, w); err != nil {
			return fmt.Errorf("render carousel: %w", err)
		}

		hw.raw("  </main>\n</body>\n</html>\n")
		return hw.err
	})
}

var pageHead = strings.Join([]string{
	"<!DOCTYPE html>",
	`<html lang="en">`,
	"<head>",
	`  <meta charset="utf-8" />`,
	`  <meta name="viewport" content="width=device-width, initial-scale=1" />`,
	"  <title>" + pageTitle + "</title>",
	`  <link rel="icon" href="/favicon.svg" type="image/svg+xml" />`,
	`  <link rel="stylesheet" href="/static/css/slider.css" />`,
	`  <link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.5.1/css/all.min.css" />`,
	`  <script src="https://unpkg.com/htmx.org@1.9.12"></script>`,
	"</head>",
	"<body>",
	"",
}, "\n")
