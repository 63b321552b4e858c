// Package carousel owns the rotation state of the image slider: the loaded
// images, the current index and the play/pause flag.
package carousel

// ImageRecord is one fetched photo.
type ImageRecord struct {
	ID         string `json:"id"`
	DisplayURL string `json:"display_url"`
	AltText    string `json:"alt_text"`
	Caption    string `json:"caption"`
	AuthorName string `json:"author_name"`
}

// Phase is the rotation phase derived from the loaded images and the play flag.
type Phase int

const (
	// Idle means no images are loaded yet, or the fetch came back empty.
	Idle Phase = iota
	Playing
	Paused
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// State is the rotation state for one mounted carousel. It is not safe for
// concurrent use; the Controller loop is its only owner.
type State struct {
	images  []ImageRecord
	index   int
	playing bool
	loaded  bool
}

// NewState returns an empty state that will start playing once images arrive.
func NewState() State {
	return State{playing: true}
}

// Load assigns the image list. Only the first call has any effect, later calls
// return false and leave the state untouched.
func (s *State) Load(images []ImageRecord) bool {
	if s.loaded {
		return false
	}
	s.loaded = true
	s.images = images
	s.index = 0
	return true
}

// Advance moves to the next image, wrapping at the end of the list. It is a
// no-op on an empty list, but the Controller never schedules it there.
func (s *State) Advance() {
	if len(s.images) == 0 {
		return
	}
	s.index = (s.index + 1) % len(s.images)
}

// TogglePlayPause flips the play flag.
func (s *State) TogglePlayPause() {
	s.playing = !s.playing
}

func (s State) Phase() Phase {
	switch {
	case len(s.images) == 0:
		return Idle
	case s.playing:
		return Playing
	default:
		return Paused
	}
}

func (s State) Index() int {
	return s.index
}

func (s State) IsPlaying() bool {
	return s.playing
}

func (s State) Images() []ImageRecord {
	return s.images
}
