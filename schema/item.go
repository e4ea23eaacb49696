package schema

import "bytes"

// ItemKind names the variant of an Item on the wire.
type ItemKind string

const (
	ItemText  ItemKind = "Text"
	ItemImage ItemKind = "Image"
)

// Defaults applied by NewText.
const (
	DefaultScale float32 = 16
)

// DefaultColor is opaque white.
var DefaultColor = Color{255, 255, 255}

// Item is one drawable unit. It is implemented by Text and Image only.
type Item interface {
	ItemKind() ItemKind
	isItem()
}

// Color is an RGB triple.
type Color [3]uint8

// Text is a string drawn at a position. Symbol marks glyph or icon
// rendering rather than literal text.
type Text struct {
	Value  string
	X      int32
	Y      int32
	ScaleX float32
	ScaleY float32
	Color  Color
	Symbol bool
}

// NewText returns a Text at the origin, white, scaled 16 on both axes.
func NewText(value string) Text {
	return Text{
		Value:  value,
		ScaleX: DefaultScale,
		ScaleY: DefaultScale,
		Color:  DefaultColor,
	}
}

func (Text) ItemKind() ItemKind { return ItemText }
func (Text) isItem()            {}

// Image carries an opaque pixel or encoded image payload.
type Image struct {
	Value  []byte
	X      uint32
	Y      uint32
	Width  uint32
	Height uint32
}

func (Image) ItemKind() ItemKind { return ItemImage }
func (Image) isItem()            {}

// Equal reports whether both images carry the same payload and geometry.
func (i Image) Equal(other Image) bool {
	if i.X != other.X || i.Y != other.Y || i.Width != other.Width || i.Height != other.Height {
		return false
	}
	return bytes.Equal(i.Value, other.Value)
}
