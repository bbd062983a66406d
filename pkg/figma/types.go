package figma

// Node type tags the outline cares about. Any other tag is kept verbatim on
// the Node and only its children are visited.
const (
	NodeDocument  = "DOCUMENT"
	NodeCanvas    = "CANVAS"
	NodeFrame     = "FRAME"
	NodeGroup     = "GROUP"
	NodeComponent = "COMPONENT"
	NodeInstance  = "INSTANCE"
	NodeText      = "TEXT"
	NodeRectangle = "RECTANGLE"
)

// PaintSolid is the only paint type that carries a color we extract.
const PaintSolid = "SOLID"

// FileResponse represents the response from the Figma file API endpoint.
// Only the fields the outline needs are kept; see UnmarshalJSON for the
// decoding rules.
type FileResponse struct {
	Name         string `json:"name"`
	LastModified string `json:"lastModified"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Version      string `json:"version"`
	Document     *Node  `json:"document"`
}

// Node represents a single element in the Figma document tree hierarchy.
// Every field is optional in the source JSON; an absent field decodes to its
// zero value.
type Node struct {
	ID          string
	Name        string
	Type        string
	Description string
	Fills       []Paint
	Style       *TypeStyle
	Children    []Node
}

// Paint represents a fill applied to a node. Color is nil unless the paint
// carried a color whose r, g and b channels are all numeric.
type Paint struct {
	Type  string
	Color *Color
}

// Color represents an RGBA color with float values nominally ranging from 0 to 1.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// TypeStyle holds the text style fields the outline reports. Each one keeps
// the exact JSON scalar it was decoded from.
type TypeStyle struct {
	FontFamily StyleValue
	FontSize   StyleValue
	FontWeight StyleValue
}

// NodesResponse represents the response from the Figma nodes endpoint. Nodes
// maps each requested id to its data; Figma answers null for ids it does not
// know, which decodes to a nil entry.
type NodesResponse struct {
	Name         string               `json:"name"`
	LastModified string               `json:"lastModified"`
	Version      string               `json:"version"`
	Nodes        map[string]*NodeData `json:"nodes"`
}

// NodeData wraps one requested node with the components and styles it uses.
type NodeData struct {
	Document   Node                 `json:"document"`
	Components map[string]Component `json:"components,omitempty"`
	Styles     map[string]Style     `json:"styles,omitempty"`
}

// Component is a component definition referenced from a node response.
type Component struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Style is a style definition referenced from a node response.
type Style struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StyleType   string `json:"style_type"`
}

// ComponentsResponse represents the response from the file components
// endpoint, which lists the components published from the file.
type ComponentsResponse struct {
	Meta struct {
		Components []PublishedComponent `json:"components"`
	} `json:"meta"`
}

// PublishedComponent is one published component of a file.
type PublishedComponent struct {
	Key             string           `json:"key" yaml:"key"`
	FileKey         string           `json:"file_key" yaml:"fileKey"`
	NodeID          string           `json:"node_id" yaml:"nodeId"`
	Name            string           `json:"name" yaml:"name"`
	Description     string           `json:"description" yaml:"description"`
	ThumbnailURL    string           `json:"thumbnail_url,omitempty" yaml:"thumbnailUrl,omitempty"`
	ContainingFrame *ContainingFrame `json:"containing_frame,omitempty" yaml:"containingFrame,omitempty"`
}

// ContainingFrame locates a published component inside its file.
type ContainingFrame struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	NodeID   string `json:"nodeId,omitempty" yaml:"nodeId,omitempty"`
	PageName string `json:"pageName,omitempty" yaml:"pageName,omitempty"`
}

// StylesResponse represents the response from the file styles endpoint,
// which lists the styles published from the file.
type StylesResponse struct {
	Meta struct {
		Styles []StyleMetadata `json:"styles"`
	} `json:"meta"`
}

// StyleMetadata is one published style. StyleType is FILL, TEXT, EFFECT or
// GRID.
type StyleMetadata struct {
	Key         string `json:"key" yaml:"key"`
	FileKey     string `json:"file_key" yaml:"fileKey"`
	NodeID      string `json:"node_id" yaml:"nodeId"`
	StyleType   string `json:"style_type" yaml:"styleType"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Library collects what a file publishes for reuse in other files.
type Library struct {
	FileKey    string               `json:"fileKey" yaml:"fileKey"`
	Components []PublishedComponent `json:"components" yaml:"components"`
	Styles     []StyleMetadata      `json:"styles" yaml:"styles"`
}
