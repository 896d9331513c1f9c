package loam

// Metadata represents the frontmatter of a document in a deck directory.
// The manifest document ("deck.md" at the root) declares the topic and the
// sub-topic order; every other document is one slide.
type Metadata struct {
	// Manifest fields.
	Topic     string           `json:"topic,omitempty" mapstructure:"topic"`
	SubTopics []map[string]any `json:"sub_topics,omitempty" mapstructure:"sub_topics"`

	// SubTopic overrides the sub-topic derived from the document's directory.
	SubTopic string `json:"sub_topic,omitempty" mapstructure:"sub_topic"`
	// Order sorts slides within a sub-topic; ties fall back to the document ID.
	Order int `json:"order,omitempty" mapstructure:"order"`

	// Slide holds every remaining key (title, layout, points, contentBlocks...)
	// in the same wire form a JSON deck uses.
	Slide map[string]any `json:"-" mapstructure:",remain"`
}
