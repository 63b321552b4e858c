package templates

import (
	"fmt"

	"github.com/aouyang1/imageslider/carousel"
)

const (
	// FallbackImageURL is shown for records without a display URL.
	FallbackImageURL = "/static/images/fallback-image.svg"

	fallbackAltText    = "Image"
	fallbackCaption    = "No description available"
	fallbackAuthorName = "Unknown"
	loadingText        = "Loading images..."
)

func imageURL(image carousel.ImageRecord) string {
	if image.DisplayURL == "" {
		return FallbackImageURL
	}
	return image.DisplayURL
}

func altText(image carousel.ImageRecord) string {
	if image.AltText == "" {
		return fallbackAltText
	}
	return image.AltText
}

// captionText falls back from caption to alt text to a fixed string.
func captionText(image carousel.ImageRecord) string {
	switch {
	case image.Caption != "":
		return image.Caption
	case image.AltText != "":
		return image.AltText
	default:
		return fallbackCaption
	}
}

func authorName(image carousel.ImageRecord) string {
	if image.AuthorName == "" {
		return fallbackAuthorName
	}
	return image.AuthorName
}

func toggleLabel(playing bool) string {
	if playing {
		return "Pause"
	}
	return "Play"
}

func toggleIcon(playing bool) string {
	if playing {
		return "fa-solid fa-pause"
	}
	return "fa-solid fa-play"
}

func itemClass(index, current int) string {
	if index == current {
		return "carousel-item block"
	}
	return "carousel-item hidden"
}

func itemDOMID(index int) string {
	return fmt.Sprintf("carousel-item-%d", index)
}
