package domain

import (
	"fmt"
	"path"
	"strings"
)

// Layout controls whether a slide splits its content into a text and a visual region.
type Layout string

const (
	LayoutCenter Layout = "center" // Single shared region
	LayoutLeft   Layout = "left"   // Visual region first, text second
	LayoutRight  Layout = "right"  // Text region first, visual second
	LayoutSplit  Layout = "split"  // Balanced text/visual split
)

// DefaultLayout is used when a slide declares no layout at all.
const DefaultLayout = LayoutSplit

// Splits reports whether content is routed into separate text and visual regions.
func (l Layout) Splits() bool {
	return l == LayoutLeft || l == LayoutRight || l == LayoutSplit
}

// ParseLayout normalizes the layout names emitted by deck producers.
// Producers use descriptive modes such as "layout-split-balanced" or
// "layout-explanation-bottom-image-right"; they collapse onto the four layouts.
func ParseLayout(raw string) Layout {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return DefaultLayout
	}
	s = strings.TrimPrefix(s, "layout-")

	switch Layout(s) {
	case LayoutCenter, LayoutLeft, LayoutRight, LayoutSplit:
		return Layout(s)
	}

	switch {
	case strings.Contains(s, "split"), strings.Contains(s, "bento"), strings.Contains(s, "magazine"):
		return LayoutSplit
	case strings.HasSuffix(s, "-left"):
		return LayoutLeft
	case strings.HasSuffix(s, "-right"):
		return LayoutRight
	default:
		return LayoutCenter
	}
}

// PointDisplay selects how the bullet points of a slide are styled.
type PointDisplay string

const (
	PointsList     PointDisplay = "list"
	PointsNumbered PointDisplay = "numbered"
	PointsCards    PointDisplay = "cards"
	PointsBento    PointDisplay = "bento"
)

// ParsePointDisplay accepts both "numbered" and the producer's "points-numbered" form.
func ParsePointDisplay(raw string) PointDisplay {
	s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), "points-")
	switch PointDisplay(s) {
	case PointsNumbered, PointsCards, PointsBento:
		return PointDisplay(s)
	default:
		return PointsList
	}
}

// Image describes the picture attached to a slide.
type Image struct {
	// URL is an explicit image location. It takes precedence over Generate.
	URL string `json:"url,omitempty"`
	// Generate requests a derived path built from the sub-topic and the slide title.
	Generate bool `json:"generate,omitempty"`
	// Type is the producer's image kind (e.g. "ai_enhanced_image"), informational only.
	Type   string `json:"type,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

// Requested reports whether the slide wants any image at all.
func (img Image) Requested() bool {
	return img.URL != "" || img.Generate
}

// ImagePath derives {root}/{subTopicID}/{title with spaces replaced by underscores}.{ext}.
// Path separators in the title or sub-topic become underscores too, so the result
// always stays under root. It performs no I/O.
func ImagePath(root, subTopicID, title, ext string) string {
	name := pathSegment(title)
	ext = strings.TrimPrefix(ext, ".")
	if ext != "" {
		name += "." + ext
	}
	return path.Join(root, pathSegment(subTopicID), name)
}

var segmentReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")

func pathSegment(s string) string {
	s = segmentReplacer.Replace(s)
	if s == "." || s == ".." {
		return strings.Repeat("_", len(s))
	}
	return s
}

// Slide is one visual screen of content.
type Slide struct {
	ID           string       `json:"id,omitempty"`
	Title        string       `json:"title,omitempty"`
	Layout       Layout       `json:"layout"`
	Decoration   string       `json:"decoration,omitempty"`
	PointDisplay PointDisplay `json:"point_display,omitempty"`
	Points       []string     `json:"points,omitempty"`
	Blocks       []Block      `json:"-"`
	Image        Image        `json:"image"`
	// Narration holds the speaker notes read alongside the slide.
	Narration string `json:"narration,omitempty"`
}

// ImageSource resolves the image location for the slide, or "" if it has none.
func (s Slide) ImageSource(subTopicID, root, ext string) string {
	if s.Image.URL != "" {
		return s.Image.URL
	}
	if s.Image.Generate && s.Title != "" {
		return ImagePath(root, subTopicID, s.Title, ext)
	}
	return ""
}

// SubTopic is a named grouping of slides within a deck.
type SubTopic struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Label returns the human name of the sub-topic, falling back to its ID.
func (st SubTopic) Label() string {
	if st.Name != "" {
		return st.Name
	}
	return st.ID
}

// Deck is the full collection of slides for a learning session.
type Deck struct {
	Topic     string             `json:"topic,omitempty"`
	SubTopics []SubTopic         `json:"sub_topics"`
	Slides    map[string][]Slide `json:"-"`
}

// Validate checks the invariants required to start presenting the deck:
// at least one sub-topic, and a non-empty slide sequence for the first one.
func (d *Deck) Validate() error {
	if d == nil || len(d.SubTopics) == 0 {
		return ErrNoSubTopics
	}
	return d.checkSubTopic(d.SubTopics[0].ID)
}

func (d *Deck) checkSubTopic(id string) error {
	slides, ok := d.Slides[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSubTopicNotFound, id)
	}
	if len(slides) == 0 {
		return fmt.Errorf("%w: %q", ErrSubTopicEmpty, id)
	}
	return nil
}

// CheckSubTopic reports whether id can become the cursor's sub-topic.
func (d *Deck) CheckSubTopic(id string) error {
	if d == nil {
		return ErrNoDeck
	}
	return d.checkSubTopic(id)
}

// SlidesFor returns the ordered slides for a sub-topic (nil if absent).
func (d *Deck) SlidesFor(id string) []Slide {
	if d == nil {
		return nil
	}
	return d.Slides[id]
}

// SubTopicIndex returns the position of id in SubTopics, or -1.
func (d *Deck) SubTopicIndex(id string) int {
	if d == nil {
		return -1
	}
	for i, st := range d.SubTopics {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// SubTopic returns the descriptor for id, if declared.
func (d *Deck) SubTopic(id string) (SubTopic, bool) {
	if i := d.SubTopicIndex(id); i >= 0 {
		return d.SubTopics[i], true
	}
	return SubTopic{}, false
}

// SlideCount returns the number of slides across all declared sub-topics.
func (d *Deck) SlideCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, st := range d.SubTopics {
		n += len(d.Slides[st.ID])
	}
	return n
}

// Cursor identifies the slide currently on screen.
type Cursor struct {
	SubTopicID string `json:"sub_topic_id"`
	Index      int    `json:"index"`
}

// Progress is the position of the cursor within its sub-topic.
type Progress struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

// Fraction returns (Index+1)/Total, for progress bars.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Index+1) / float64(p.Total)
}

// Label returns the literal "i / total" indicator text.
func (p Progress) Label() string {
	return fmt.Sprintf("%d / %d", p.Index+1, p.Total)
}
