package store

// AppSettings configures how each carousel mount fetches and rotates.
type AppSettings struct {
	SlideshowIntervalSeconds int `json:"slideshow_interval_seconds"`
	PerPage                  int `json:"per_page"`
}

const (
	DefaultSlideshowIntervalSeconds = 5
	DefaultPerPage                  = 10
	MaxPerPage                      = 30
)
