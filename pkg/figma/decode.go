package figma

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// MaxNodeDepth bounds how deep NodeFromValue descends. encoding/json refuses
// documents nested deeper than this anyway; the bound only matters for values
// built in memory.
const MaxNodeDepth = 10000

// UnmarshalJSON decodes a file response leniently: fields of an unexpected
// type are left at their zero value instead of failing the whole document.
func (f *FileResponse) UnmarshalJSON(data []byte) error {
	v, err := decodeValue(data)
	if err != nil {
		return err
	}

	*f = FileFromValue(v)
	return nil
}

// UnmarshalJSON decodes a node leniently. A JSON value that is not an object
// becomes the empty Node.
func (n *Node) UnmarshalJSON(data []byte) error {
	v, err := decodeValue(data)
	if err != nil {
		return err
	}

	*n = NodeFromValue(v)
	return nil
}

func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// FileFromValue builds a FileResponse from an already decoded JSON value.
func FileFromValue(v any) FileResponse {
	m, ok := v.(map[string]any)
	if !ok {
		return FileResponse{}
	}

	f := FileResponse{
		Name:         stringOf(m["name"]),
		LastModified: stringOf(m["lastModified"]),
		ThumbnailURL: stringOf(m["thumbnailUrl"]),
		Version:      stringOf(m["version"]),
	}
	if doc, ok := m["document"]; ok && doc != nil {
		node := NodeFromValue(doc)
		f.Document = &node
	}

	return f
}

// NodeFromValue builds a Node tree from an already decoded JSON-like value
// (maps, slices, strings, json.Number or Go numbers). Anything that is not
// an object becomes the empty Node. Nodes at depth MaxNodeDepth keep no
// children.
//
// Values built in memory may share or even contain themselves. A map that
// reappears among its own descendants becomes the empty Node, and a map
// shared by several parents is converted once.
func NodeFromValue(v any) Node {
	b := nodeBuilder{
		onPath: make(map[uintptr]struct{}),
		built:  make(map[uintptr]builtNode),
	}
	return b.node(v, 0)
}

type nodeBuilder struct {
	onPath map[uintptr]struct{}
	built  map[uintptr]builtNode
}

// builtNode remembers the depth a shared map was first converted at. A copy
// converted deeper may have lost children to MaxNodeDepth, so it is only
// reused at the same depth or below.
type builtNode struct {
	node  Node
	depth int
}

func (b *nodeBuilder) node(v any, depth int) Node {
	m, ok := v.(map[string]any)
	if !ok {
		return Node{}
	}

	ptr := reflect.ValueOf(m).Pointer()
	if ptr != 0 {
		if _, cyclic := b.onPath[ptr]; cyclic {
			return Node{}
		}
		if bn, ok := b.built[ptr]; ok && depth >= bn.depth {
			return bn.node
		}
		b.onPath[ptr] = struct{}{}
		defer delete(b.onPath, ptr)
	}

	n := Node{
		ID:          stringOf(m["id"]),
		Name:        stringOf(m["name"]),
		Type:        stringOf(m["type"]),
		Description: stringOf(m["description"]),
		Style:       styleFromValue(m["style"]),
	}

	if fills, ok := m["fills"].([]any); ok {
		n.Fills = make([]Paint, 0, len(fills))
		for _, fill := range fills {
			n.Fills = append(n.Fills, paintFromValue(fill))
		}
	}

	if children, ok := m["children"].([]any); ok && depth < MaxNodeDepth {
		n.Children = make([]Node, 0, len(children))
		for _, child := range children {
			n.Children = append(n.Children, b.node(child, depth+1))
		}
	}

	if ptr != 0 {
		b.built[ptr] = builtNode{node: n, depth: depth}
	}
	return n
}

func paintFromValue(v any) Paint {
	m, ok := v.(map[string]any)
	if !ok {
		return Paint{}
	}

	return Paint{
		Type:  stringOf(m["type"]),
		Color: colorFromValue(m["color"]),
	}
}

// colorFromValue returns nil unless r, g and b are all present and numeric.
// Alpha is optional.
func colorFromValue(v any) *Color {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	r, okR := toFloat(m["r"])
	g, okG := toFloat(m["g"])
	b, okB := toFloat(m["b"])
	if !okR || !okG || !okB {
		return nil
	}
	a, _ := toFloat(m["a"])

	return &Color{R: r, G: g, B: b, A: a}
}

// styleFromValue returns nil for a missing, non-object or empty style.
func styleFromValue(v any) *TypeStyle {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}

	return &TypeStyle{
		FontFamily: styleValueFrom(m["fontFamily"]),
		FontSize:   styleValueFrom(m["fontSize"]),
		FontWeight: styleValueFrom(m["fontWeight"]),
	}
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	case uint32:
		return float64(x), true
	}
	return 0, false
}
