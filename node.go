package mosaic

import (
	"fmt"
	"image"

	"golang.org/x/image/math/fixed"
)

// NodeKind identifies the variant of a LayerNode.
type NodeKind uint8

const (
	// NodeLayer starts one layer's contribution to a tile.
	NodeLayer NodeKind = iota

	// NodeSegments is a contiguous range of the current layer's segments.
	NodeSegments
)

// String returns a human-readable name for the kind.
func (k NodeKind) String() string {
	switch k {
	case NodeLayer:
		return "Layer"
	case NodeSegments:
		return "Segments"
	default:
		return fmt.Sprintf("NodeKind(%d)", k)
	}
}

// Span is a half-open range [Lo, Hi) of segment indices.
type Span struct {
	Lo, Hi int
}

// Len returns the number of indices in the span.
func (s Span) Len() int {
	return s.Hi - s.Lo
}

// LayerNode is one entry of a tile's display list.
//
// A NodeLayer entry carries ID and Translation. A NodeSegments entry carries
// Start, the translated first point of the range, and Span. Every
// NodeSegments entry belongs to the closest preceding NodeLayer entry.
type LayerNode struct {
	Kind        NodeKind
	ID          uint32
	Translation image.Point
	Start       fixed.Point26_6
	Span        Span
}

// LayerRef returns a NodeLayer entry.
func LayerRef(id uint32, translation image.Point) LayerNode {
	return LayerNode{Kind: NodeLayer, ID: id, Translation: translation}
}

// SegmentSpan returns a NodeSegments entry.
func SegmentSpan(start fixed.Point26_6, span Span) LayerNode {
	return LayerNode{Kind: NodeSegments, Start: start, Span: span}
}

func (n LayerNode) String() string {
	if n.Kind == NodeLayer {
		return fmt.Sprintf("Layer(%d @ %v)", n.ID, n.Translation)
	}
	return fmt.Sprintf("Segments[%d:%d] from %v", n.Span.Lo, n.Span.Hi, n.Start)
}
