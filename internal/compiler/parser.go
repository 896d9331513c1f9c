// Package compiler decodes lesson decks from their wire form into the domain model.
package compiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a deck document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension (defaults to JSON).
func FormatFromPath(path string) Format {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// DecodeError reports where in the document a value could not be decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Parser is responsible for converting raw documents into a Deck.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser instance. A nil logger discards warnings.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Parser{logger: logger}
}

// Parse decodes data in the given format.
func (p *Parser) Parse(data []byte, format Format) (*domain.Deck, error) {
	var doc map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &DecodeError{Path: "$", Err: fmt.Errorf("failed to parse yaml deck: %w", err)}
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &DecodeError{Path: "$", Err: fmt.Errorf("failed to parse json deck: %w", err)}
		}
	}
	if doc == nil {
		return nil, &DecodeError{Path: "$", Err: errors.New("empty document")}
	}
	return p.ParseMap(doc)
}

type rawDeck struct {
	Topic          string                     `mapstructure:"topic"`
	SubTopics      []domain.SubTopic          `mapstructure:"sub_topics"`
	SubTopicsCamel []domain.SubTopic          `mapstructure:"subTopics"`
	Slides         map[string][]map[string]any `mapstructure:"slides"`
}

// ParseMap decodes an already unmarshalled document.
// Slides of sub-topics that are not declared in sub_topics are kept; the cursor
// can never reach them but outline tools still list them.
func (p *Parser) ParseMap(doc map[string]any) (*domain.Deck, error) {
	var raw rawDeck
	if err := decode(doc, &raw); err != nil {
		return nil, &DecodeError{Path: "$", Err: err}
	}

	deck := &domain.Deck{
		Topic:     raw.Topic,
		SubTopics: raw.SubTopics,
		Slides:    make(map[string][]domain.Slide, len(raw.Slides)),
	}
	if len(deck.SubTopics) == 0 {
		deck.SubTopics = raw.SubTopicsCamel
	}

	var errs []error
	for i, st := range deck.SubTopics {
		if st.ID == "" {
			errs = append(errs, &DecodeError{Path: fmt.Sprintf("sub_topics[%d].id", i), Err: errors.New("missing id")})
		}
	}

	for id, rawSlides := range raw.Slides {
		slides := make([]domain.Slide, 0, len(rawSlides))
		for i, rs := range rawSlides {
			path := fmt.Sprintf("slides.%s[%d]", id, i)
			s, err := p.parseSlide(path, rs)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			slides = append(slides, s)
		}
		deck.Slides[id] = slides
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return deck, nil
}

type rawDesign struct {
	LayoutMode      string `mapstructure:"layout_mode"`
	DecorationStyle string `mapstructure:"decoration_style"`
	PointDisplay    string `mapstructure:"point_display"`
}

type rawSlide struct {
	ID                 string           `mapstructure:"id"`
	Title              string           `mapstructure:"title"`
	Layout             string           `mapstructure:"layout"`
	Design             rawDesign        `mapstructure:"design"`
	Decoration         string           `mapstructure:"decoration"`
	PointDisplay       string           `mapstructure:"point_display"`
	Points             []any            `mapstructure:"points"`
	ContentBlocks      []map[string]any `mapstructure:"contentBlocks"`
	ContentBlocksSnake []map[string]any `mapstructure:"content_blocks"`
	ImageType          string           `mapstructure:"imageType"`
	ImageURL           string           `mapstructure:"imageURL"`
	ImagePrompt        string           `mapstructure:"imagePrompt"`
	HasImage           bool             `mapstructure:"has_image"`
	Narration          string           `mapstructure:"narration"`
	NarrationText      string           `mapstructure:"narration_text"`
}

func (p *Parser) parseSlide(path string, in map[string]any) (domain.Slide, error) {
	var raw rawSlide
	if err := decode(in, &raw); err != nil {
		return domain.Slide{}, &DecodeError{Path: path, Err: err}
	}

	layout := raw.Design.LayoutMode
	if layout == "" {
		layout = raw.Layout
	}
	decoration := raw.Design.DecorationStyle
	if decoration == "" {
		decoration = raw.Decoration
	}
	display := raw.Design.PointDisplay
	if display == "" {
		display = raw.PointDisplay
	}
	narration := raw.Narration
	if narration == "" {
		narration = raw.NarrationText
	}

	s := domain.Slide{
		ID:           raw.ID,
		Title:        raw.Title,
		Layout:       domain.ParseLayout(layout),
		Decoration:   decoration,
		PointDisplay: domain.ParsePointDisplay(display),
		Points:       pointTexts(raw.Points),
		Image: domain.Image{
			URL:      raw.ImageURL,
			Generate: raw.HasImage || raw.ImageType != "",
			Type:     raw.ImageType,
			Prompt:   raw.ImagePrompt,
		},
		Narration: narration,
	}

	blocks := raw.ContentBlocks
	if len(blocks) == 0 {
		blocks = raw.ContentBlocksSnake
	}
	for i, rb := range blocks {
		b, err := p.parseBlock(fmt.Sprintf("%s.contentBlocks[%d]", path, i), rb)
		if err != nil {
			return domain.Slide{}, err
		}
		if b != nil {
			s.Blocks = append(s.Blocks, b)
		}
	}
	return s, nil
}

// pointTexts accepts plain strings or objects carrying a "text" or "title" field.
func pointTexts(in []any) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		switch p := v.(type) {
		case string:
			out = append(out, p)
		case map[string]any:
			for _, k := range []string{"text", "title", "point"} {
				if s, ok := p[k].(string); ok {
					out = append(out, s)
					break
				}
			}
		case nil:
		default:
			out = append(out, fmt.Sprint(p))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

type rawColumn struct {
	Title  string   `mapstructure:"title"`
	Items  []string `mapstructure:"items"`
	Points []string `mapstructure:"points"`
}

// parseBlock returns (nil, nil) for block kinds that have no renderer.
func (p *Parser) parseBlock(path string, in map[string]any) (domain.Block, error) {
	kind, _ := in["type"].(string)
	target, ok := domain.NewBlock(domain.BlockKind(strings.ToLower(kind)))
	if !ok {
		p.logger.Warn("Dropping unknown content block", "path", path, "type", kind)
		return nil, nil
	}
	if err := decode(in, target); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	switch b := target.(type) {
	case *domain.Timeline:
		return *b, nil
	case *domain.Explanation:
		return *b, nil
	case *domain.Comparison:
		if cols, ok := in["columns"]; ok {
			var columns []rawColumn
			if err := decode(cols, &columns); err != nil {
				return nil, &DecodeError{Path: path + ".columns", Err: err}
			}
			b.Left, b.Right = columnSide(columns, 0), columnSide(columns, 1)
		}
		return *b, nil
	case *domain.Statistics:
		return *b, nil
	case *domain.Story:
		return *b, nil
	case *domain.Takeaways:
		return *b, nil
	}
	return nil, nil
}

func columnSide(cols []rawColumn, i int) domain.ComparisonSide {
	if i >= len(cols) {
		return domain.ComparisonSide{}
	}
	points := cols[i].Items
	if len(points) == 0 {
		points = cols[i].Points
	}
	return domain.ComparisonSide{Title: cols[i].Title, Points: points}
}

func decode(input, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
