package domain

// BlockKind names a content block variant on the wire.
type BlockKind string

const (
	KindTimeline    BlockKind = "timeline"
	KindExplanation BlockKind = "explanation"
	KindComparison  BlockKind = "comparison"
	KindStatistics  BlockKind = "statistics"
	KindStory       BlockKind = "story"
	KindTakeaways   BlockKind = "takeaways"
)

// Region is the area of a split slide a block is routed to.
type Region int

const (
	RegionText Region = iota
	RegionVisual
)

func (r Region) String() string {
	if r == RegionText {
		return "text"
	}
	return "visual"
}

// Block is a typed content unit within a slide.
// The set of variants is closed; renderers switch over the concrete types below.
type Block interface {
	Kind() BlockKind
	Region() Region
	// RevealStep returns the explicit reveal tag of the block, or 0 to use the running order.
	RevealStep() int
	block()
}

// Cue carries the optional explicit reveal tag shared by every block variant.
type Cue struct {
	Step int `json:"step,omitempty" mapstructure:"step"`
}

func (c Cue) RevealStep() int { return c.Step }
func (Cue) block()            {}

// TimelineEvent is one (year, description) pair.
type TimelineEvent struct {
	Year        string `json:"year" mapstructure:"year"`
	Description string `json:"description" mapstructure:"description"`
}

type Timeline struct {
	Cue    `mapstructure:",squash"`
	Events []TimelineEvent `json:"events" mapstructure:"events"`
}

func (Timeline) Kind() BlockKind { return KindTimeline }
func (Timeline) Region() Region  { return RegionVisual }

type Explanation struct {
	Cue        `mapstructure:",squash"`
	Paragraphs []string `json:"paragraphs" mapstructure:"paragraphs"`
}

func (Explanation) Kind() BlockKind { return KindExplanation }
func (Explanation) Region() Region  { return RegionText }

// ComparisonSide is one column of a comparison. A missing side renders as an empty list.
type ComparisonSide struct {
	Title  string   `json:"title" mapstructure:"title"`
	Points []string `json:"points" mapstructure:"points"`
}

type Comparison struct {
	Cue   `mapstructure:",squash"`
	Left  ComparisonSide `json:"left" mapstructure:"left"`
	Right ComparisonSide `json:"right" mapstructure:"right"`
}

func (Comparison) Kind() BlockKind { return KindComparison }
func (Comparison) Region() Region  { return RegionVisual }

// Statistic is one (value, label) pair.
type Statistic struct {
	Value string `json:"value" mapstructure:"value"`
	Label string `json:"label" mapstructure:"label"`
}

type Statistics struct {
	Cue   `mapstructure:",squash"`
	Stats []Statistic `json:"stats" mapstructure:"stats"`
}

func (Statistics) Kind() BlockKind { return KindStatistics }
func (Statistics) Region() Region  { return RegionVisual }

type Story struct {
	Cue  `mapstructure:",squash"`
	Text string `json:"text" mapstructure:"text"`
}

func (Story) Kind() BlockKind { return KindStory }
func (Story) Region() Region  { return RegionText }

type Takeaways struct {
	Cue    `mapstructure:",squash"`
	Points []string `json:"points" mapstructure:"points"`
}

func (Takeaways) Kind() BlockKind { return KindTakeaways }
func (Takeaways) Region() Region  { return RegionText }

// KnownBlockKinds lists every block kind, in wire-name order of declaration.
var KnownBlockKinds = []BlockKind{
	KindTimeline, KindExplanation, KindComparison, KindStatistics, KindStory, KindTakeaways,
}

// NewBlock returns a zero value of the variant named by kind, for decoders.
func NewBlock(kind BlockKind) (Block, bool) {
	switch kind {
	case KindTimeline:
		return &Timeline{}, true
	case KindExplanation:
		return &Explanation{}, true
	case KindComparison:
		return &Comparison{}, true
	case KindStatistics:
		return &Statistics{}, true
	case KindStory:
		return &Story{}, true
	case KindTakeaways:
		return &Takeaways{}, true
	default:
		return nil, false
	}
}
