package show

// Role distinguishes the user's question slide from generated answer slides.
type Role string

const (
	RoleQuestion Role = "question"
	RoleAnswer   Role = "answer"
)

// Slide is one caption+optional-image unit of a slideshow. Caption holds
// rendered HTML, never raw markup, so restore can reuse it verbatim.
type Slide struct {
	Role     Role   `json:"role"`
	Caption  string `json:"caption"`
	Image    []byte `json:"-"`
	MIMEType string `json:"mimeType,omitempty"`
}

// IsQuestion reports whether the slide carries the originating question.
func (s Slide) IsQuestion() bool {
	return s.Role == RoleQuestion
}

// Empty reports whether the slide has neither caption nor image. Empty
// answer slides are never emitted or persisted.
func (s Slide) Empty() bool {
	return s.Caption == "" && len(s.Image) == 0
}

// Presentation setting enums. Unrecognized values fall back to the first
// entry of each list via Settings.Normalize.
var (
	Themes       = []string{"classic", "storybook", "chalkboard", "photo"}
	AspectRatios = []string{"16:9", "4:3", "1:1", "9:16"}
	ColorStyles  = []string{"vibrant", "pastel", "monochrome", "sepia"}
)

// Settings captures the three presentation selections active when a
// slideshow was created. They travel with the session and its snapshot.
type Settings struct {
	Theme       string `json:"theme"`
	AspectRatio string `json:"ratio"`
	ColorStyle  string `json:"colorStyle"`
}

// DefaultSettings returns the first entry of each allow-list.
func DefaultSettings() Settings {
	return Settings{
		Theme:       Themes[0],
		AspectRatio: AspectRatios[0],
		ColorStyle:  ColorStyles[0],
	}
}

// Normalize replaces empty or unrecognized selections with the matching
// field from fallback.
func (s Settings) Normalize(fallback Settings) Settings {
	if !contains(Themes, s.Theme) {
		s.Theme = fallback.Theme
	}
	if !contains(AspectRatios, s.AspectRatio) {
		s.AspectRatio = fallback.AspectRatio
	}
	if !contains(ColorStyles, s.ColorStyle) {
		s.ColorStyle = fallback.ColorStyle
	}
	return s
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
