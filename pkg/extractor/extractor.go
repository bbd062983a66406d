package extractor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kataras/figma-dash/pkg/figma"
)

// DefaultMaxDepth is the deepest node level Extract visits before giving up.
// The document root is depth 0.
const DefaultMaxDepth = 4096

// DefaultFileName is used when the source file has no name.
const DefaultFileName = "Untitled"

// ErrMaxDepth is matched by the *DepthError returned when a document is
// nested deeper than the configured maximum.
var ErrMaxDepth = errors.New("document exceeds maximum depth")

// DepthError reports the first node found beyond the depth ceiling.
type DepthError struct {
	Depth    int
	MaxDepth int
	NodeID   string
	NodeName string
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("node %q (%s) at depth %d: %v (max %d)", e.NodeName, e.NodeID, e.Depth, ErrMaxDepth, e.MaxDepth)
}

// Is makes errors.Is(err, ErrMaxDepth) report true.
func (e *DepthError) Is(target error) bool {
	return target == ErrMaxDepth
}

// FeatureSummary is the normalized result of walking one document. It is
// built once by Extract and only read afterwards.
type FeatureSummary struct {
	FileName   string      `json:"fileName" yaml:"fileName"`
	Components []Component `json:"components" yaml:"components"`
	Colors     []string    `json:"colors" yaml:"colors"`
	TextStyles []TextStyle `json:"textStyles" yaml:"textStyles"`
	Frames     []Frame     `json:"frames" yaml:"frames"`
}

// Component is a reusable design element, keyed by its node id.
type Component struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Frame is a FRAME or CANVAS (page) node.
type Frame struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// TextStyle is the font triple of a TEXT node. Fields missing from the
// node's style are absent StyleValues.
type TextStyle struct {
	FontFamily figma.StyleValue `json:"fontFamily" yaml:"fontFamily"`
	FontSize   figma.StyleValue `json:"fontSize" yaml:"fontSize"`
	FontWeight figma.StyleValue `json:"fontWeight" yaml:"fontWeight"`
}

// Equal reports field-wise value equality.
func (s TextStyle) Equal(o TextStyle) bool {
	return s.FontFamily.Equal(o.FontFamily) &&
		s.FontSize.Equal(o.FontSize) &&
		s.FontWeight.Equal(o.FontWeight)
}

// Component returns the component stored under id.
func (s *FeatureSummary) Component(id string) (Component, bool) {
	for _, c := range s.Components {
		if c.ID == id {
			return c, true
		}
	}
	return Component{}, false
}

// Extractor walks Figma document trees. The zero value is not usable; call New.
type Extractor struct {
	maxDepth int
}

// Option configures an Extractor.
type Option func(*Extractor)

// LimitMaxDepth is the highest ceiling WithMaxDepth accepts. figma.NodeFromValue
// keeps nodes down to depth figma.MaxNodeDepth and drops their children, so a
// ceiling one below it turns any such cut into a *DepthError.
const LimitMaxDepth = figma.MaxNodeDepth - 1

// WithMaxDepth sets the depth ceiling. Values <= 0 restore DefaultMaxDepth and
// values above LimitMaxDepth are lowered to it.
func WithMaxDepth(depth int) Option {
	return func(e *Extractor) {
		switch {
		case depth <= 0:
			depth = DefaultMaxDepth
		case depth > LimitMaxDepth:
			depth = LimitMaxDepth
		}
		e.maxDepth = depth
	}
}

// New returns an Extractor with the given options applied.
func New(opts ...Option) *Extractor {
	e := &Extractor{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract walks root with the default options.
func Extract(root *figma.Node, fileName string) (*FeatureSummary, error) {
	return New().Extract(root, fileName)
}

// ExtractFile walks the document of a file response and names the summary
// after the file.
func ExtractFile(file *figma.FileResponse, opts ...Option) (*FeatureSummary, error) {
	if file == nil {
		return New(opts...).Extract(nil, "")
	}
	return New(opts...).Extract(file.Document, file.Name)
}

// Extract walks the tree under root in depth-first pre-order and collects
// components, frames, solid fill colors and text styles. A nil root yields an
// empty summary. The only error is a *DepthError.
func (e *Extractor) Extract(root *figma.Node, fileName string) (*FeatureSummary, error) {
	acc := newAccumulator()

	if root != nil {
		type item struct {
			node  *figma.Node
			depth int
		}

		stack := []item{{node: root}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if top.depth > e.maxDepth {
				return nil, &DepthError{
					Depth:    top.depth,
					MaxDepth: e.maxDepth,
					NodeID:   top.node.ID,
					NodeName: top.node.Name,
				}
			}

			acc.visit(top.node)

			// Push in reverse so the first child is popped first.
			children := top.node.Children
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, item{node: &children[i], depth: top.depth + 1})
			}
		}
	}

	if fileName == "" {
		fileName = DefaultFileName
	}

	return acc.summary(fileName), nil
}

// accumulator holds the mutable state of a single walk.
type accumulator struct {
	components     []Component
	componentIndex map[string]int
	colors         map[string]struct{}
	textStyles     []TextStyle
	frames         []Frame
}

func newAccumulator() *accumulator {
	return &accumulator{
		componentIndex: make(map[string]int),
		colors:         make(map[string]struct{}),
	}
}

func (a *accumulator) visit(node *figma.Node) {
	switch node.Type {
	case figma.NodeComponent:
		a.addComponent(node)
	case figma.NodeFrame, figma.NodeCanvas:
		a.frames = append(a.frames, Frame{Name: node.Name, Type: node.Type})
	case figma.NodeText:
		if node.Style != nil {
			a.addTextStyle(TextStyle{
				FontFamily: node.Style.FontFamily,
				FontSize:   node.Style.FontSize,
				FontWeight: node.Style.FontWeight,
			})
		}
	}

	// Fills count on every node type, not only on shapes.
	for _, fill := range node.Fills {
		if fill.Type != figma.PaintSolid {
			continue
		}
		if hex, ok := ColorToHex(fill.Color); ok {
			a.colors[hex] = struct{}{}
		}
	}
}

// addComponent upserts by id; a repeated id keeps its first position but
// takes the latest name and description.
func (a *accumulator) addComponent(node *figma.Node) {
	c := Component{ID: node.ID, Name: node.Name, Description: node.Description}
	if i, ok := a.componentIndex[c.ID]; ok {
		a.components[i] = c
		return
	}
	a.componentIndex[c.ID] = len(a.components)
	a.components = append(a.components, c)
}

func (a *accumulator) addTextStyle(style TextStyle) {
	for _, seen := range a.textStyles {
		if seen.Equal(style) {
			return
		}
	}
	a.textStyles = append(a.textStyles, style)
}

func (a *accumulator) summary(fileName string) *FeatureSummary {
	colors := make([]string, 0, len(a.colors))
	for hex := range a.colors {
		colors = append(colors, hex)
	}
	sort.Strings(colors)

	s := &FeatureSummary{
		FileName:   fileName,
		Components: a.components,
		Colors:     colors,
		TextStyles: a.textStyles,
		Frames:     a.frames,
	}
	if s.Components == nil {
		s.Components = []Component{}
	}
	if s.TextStyles == nil {
		s.TextStyles = []TextStyle{}
	}
	if s.Frames == nil {
		s.Frames = []Frame{}
	}

	return s
}
