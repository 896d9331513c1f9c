package dsl

import "github.com/aretw0/lectern/pkg/domain"

// SlideBuilder provides a fluent API for configuring a slide.
// Points and blocks are revealed in the order they are added.
type SlideBuilder struct {
	slide    domain.Slide
	subTopic *SubTopicBuilder
	cue      int
}

// ID sets the slide identifier.
func (s *SlideBuilder) ID(id string) *SlideBuilder {
	s.slide.ID = id
	return s
}

// Layout sets the slide layout.
func (s *SlideBuilder) Layout(l domain.Layout) *SlideBuilder {
	s.slide.Layout = l
	return s
}

// Decoration adds a visual decoration class.
func (s *SlideBuilder) Decoration(class string) *SlideBuilder {
	s.slide.Decoration = class
	return s
}

// Points appends bullet points, one reveal step each.
func (s *SlideBuilder) Points(points ...string) *SlideBuilder {
	s.slide.Points = append(s.slide.Points, points...)
	return s
}

// Display selects how the points are styled.
func (s *SlideBuilder) Display(d domain.PointDisplay) *SlideBuilder {
	s.slide.PointDisplay = d
	return s
}

// Image attaches an explicit image URL.
func (s *SlideBuilder) Image(url string) *SlideBuilder {
	s.slide.Image = domain.Image{URL: url}
	return s
}

// GeneratedImage requests the image path derived from the sub-topic and title.
func (s *SlideBuilder) GeneratedImage() *SlideBuilder {
	s.slide.Image = domain.Image{Generate: true}
	return s
}

// Notes sets the speaker narration.
func (s *SlideBuilder) Notes(text string) *SlideBuilder {
	s.slide.Narration = text
	return s
}

// At gives the next block an explicit reveal step instead of the running order.
func (s *SlideBuilder) At(step int) *SlideBuilder {
	s.cue = step
	return s
}

func (s *SlideBuilder) add(b domain.Block) *SlideBuilder {
	s.slide.Blocks = append(s.slide.Blocks, b)
	s.cue = 0
	return s
}

// Explanation appends an explanation block.
func (s *SlideBuilder) Explanation(paragraphs ...string) *SlideBuilder {
	return s.add(domain.Explanation{Cue: domain.Cue{Step: s.cue}, Paragraphs: paragraphs})
}

// Story appends a story block.
func (s *SlideBuilder) Story(text string) *SlideBuilder {
	return s.add(domain.Story{Cue: domain.Cue{Step: s.cue}, Text: text})
}

// Takeaways appends a takeaways block.
func (s *SlideBuilder) Takeaways(points ...string) *SlideBuilder {
	return s.add(domain.Takeaways{Cue: domain.Cue{Step: s.cue}, Points: points})
}

// Stat appends a statistics block with a single value. Consecutive calls
// without At extend the same block.
func (s *SlideBuilder) Stat(value, label string) *SlideBuilder {
	stat := domain.Statistic{Value: value, Label: label}
	if n := len(s.slide.Blocks); n > 0 && s.cue == 0 {
		if last, ok := s.slide.Blocks[n-1].(domain.Statistics); ok {
			last.Stats = append(last.Stats, stat)
			s.slide.Blocks[n-1] = last
			return s
		}
	}
	return s.add(domain.Statistics{Cue: domain.Cue{Step: s.cue}, Stats: []domain.Statistic{stat}})
}

// Event appends a timeline entry, extending a preceding timeline block.
func (s *SlideBuilder) Event(year, description string) *SlideBuilder {
	ev := domain.TimelineEvent{Year: year, Description: description}
	if n := len(s.slide.Blocks); n > 0 && s.cue == 0 {
		if last, ok := s.slide.Blocks[n-1].(domain.Timeline); ok {
			last.Events = append(last.Events, ev)
			s.slide.Blocks[n-1] = last
			return s
		}
	}
	return s.add(domain.Timeline{Cue: domain.Cue{Step: s.cue}, Events: []domain.TimelineEvent{ev}})
}

// Compare appends a comparison block.
func (s *SlideBuilder) Compare(left, right domain.ComparisonSide) *SlideBuilder {
	return s.add(domain.Comparison{Cue: domain.Cue{Step: s.cue}, Left: left, Right: right})
}

// Slide appends another slide to the same sub-topic.
func (s *SlideBuilder) Slide(title string) *SlideBuilder {
	return s.subTopic.Slide(title)
}

// End returns to the sub-topic builder.
func (s *SlideBuilder) End() *SubTopicBuilder {
	return s.subTopic
}

// Build returns the underlying domain.Slide.
func (s *SlideBuilder) Build() domain.Slide {
	return s.slide
}
