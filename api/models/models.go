// Package models tracks all api models for request and responses
package models

import "github.com/aouyang1/imageslider/carousel"

// UnsplashPhoto is the subset of an Unsplash photo object the slider uses.
type UnsplashPhoto struct {
	ID             string `json:"id"`
	AltDescription string `json:"alt_description"`
	Description    string `json:"description"`
	URLs           struct {
		Regular string `json:"regular"`
	} `json:"urls"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
}

type CarouselStateResponse struct {
	Phase         string                 `json:"phase"`
	CurrentIndex  int                    `json:"current_index"`
	IsPlaying     bool                   `json:"is_playing"`
	ActiveTimers  int                    `json:"active_timers"`
	TimersStarted int                    `json:"timers_started"`
	Images        []carousel.ImageRecord `json:"images"`
}

func NewCarouselStateResponse(snap carousel.Snapshot) CarouselStateResponse {
	images := snap.Images
	if images == nil {
		images = []carousel.ImageRecord{}
	}
	return CarouselStateResponse{
		Phase:         snap.Phase.String(),
		CurrentIndex:  snap.Index,
		IsPlaying:     snap.Playing,
		ActiveTimers:  snap.ActiveTimers,
		TimersStarted: snap.TimersStarted,
		Images:        images,
	}
}

type UpdateSettingsRequest struct {
	SlideshowIntervalSeconds int `json:"slideshow_interval_seconds"`
	PerPage                  int `json:"per_page"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
