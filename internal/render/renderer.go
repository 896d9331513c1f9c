// Package render turns a domain slide into a view tree.
package render

import (
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/view"
)

const (
	DefaultImagesRoot = "static/images"
	DefaultImageExt   = "png"
)

// Renderer builds view trees from slides. It is pure: the same slide always
// yields a structurally identical tree.
type Renderer struct {
	imagesRoot string
	imageExt   string
}

// Option defines a functional option for configuring the Renderer.
type Option func(*Renderer)

// WithImagesRoot sets the root used to derive generated image paths.
func WithImagesRoot(root string) Option {
	return func(r *Renderer) {
		if root != "" {
			r.imagesRoot = root
		}
	}
}

// WithImageExt sets the extension of derived image paths.
func WithImageExt(ext string) Option {
	return func(r *Renderer) {
		if ext != "" {
			r.imageExt = ext
		}
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{imagesRoot: DefaultImagesRoot, imageExt: DefaultImageExt}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render builds the tree for slide, which belongs to sub-topic subTopicID.
func (r *Renderer) Render(subTopicID string, slide domain.Slide) *view.Node {
	layout := slide.Layout
	if layout == "" {
		layout = domain.DefaultLayout
	}

	classes := []string{"slide", "layout-" + string(layout)}
	if slide.Decoration != "" {
		classes = append(classes, slide.Decoration)
	}
	root := view.El("div", classes...).WithRole(view.RoleSlide)
	if slide.ID != "" {
		root.WithAttr("id", slide.ID)
	}
	if slide.Title != "" {
		root.Append(view.Txt("h1", slide.Title, "slide-title"))
	}

	// Tags follow data order: points first, then blocks in declaration order.
	step := 0
	points := r.points(slide, &step)
	blocks := make([]*view.Node, len(slide.Blocks))
	for i, b := range slide.Blocks {
		n := renderBlock(b)
		if s := b.RevealStep(); s > 0 {
			n.Tag(s)
		} else {
			step++
			n.Tag(step)
		}
		blocks[i] = n
	}
	image := r.image(subTopicID, slide)

	if !layout.Splits() {
		body := view.El("div", "slide-body").WithRole(view.RoleContent)
		body.Append(points)
		body.Append(blocks...)
		body.Append(image)
		return root.Append(body)
	}

	text := view.El("div", "slide-text").WithRole(view.RoleText)
	text.Append(points)
	visual := view.El("div", "slide-visual").WithRole(view.RoleVisual)
	visual.Append(image)
	for i, b := range slide.Blocks {
		if b.Region() == domain.RegionText {
			text.Append(blocks[i])
		} else {
			visual.Append(blocks[i])
		}
	}

	if layout == domain.LayoutLeft {
		return root.Append(visual, text)
	}
	return root.Append(text, visual)
}

func (r *Renderer) points(slide domain.Slide, step *int) *view.Node {
	if len(slide.Points) == 0 {
		return nil
	}
	display := slide.PointDisplay
	if display == "" {
		display = domain.PointsList
	}
	kind := "ul"
	if display == domain.PointsNumbered {
		kind = "ol"
	}
	list := view.El(kind, "points", "points-"+string(display))
	for _, p := range slide.Points {
		*step++
		list.Append(view.Txt("li", p, "point").Tag(*step))
	}
	return list
}

func (r *Renderer) image(subTopicID string, slide domain.Slide) *view.Node {
	src := slide.ImageSource(subTopicID, r.imagesRoot, r.imageExt)
	if src == "" {
		return nil
	}
	return view.El("img", "slide-image").WithAttr("src", src).WithAttr("alt", slide.Title)
}
