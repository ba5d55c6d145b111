package tmx

import (
	"fmt"

	"github.com/adm87/enum"
)

// unmarshalEnum decodes a textual enum value. An empty value leaves the zero value in place.
func unmarshalEnum[T interface {
	~uint8
	String() string
	IsValid() bool
}](text []byte, dst *T) error {
	if len(text) == 0 {
		var zero T
		*dst = zero
		return nil
	}
	val, err := enum.UnmarshalEnum[T](string(text))
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

// ======================================================
// DrawOrder
// ======================================================

type DrawOrder uint8

const (
	DrawOrderTopDown DrawOrder = iota
	DrawOrderIndex
)

func (do DrawOrder) String() string {
	switch do {
	case DrawOrderTopDown:
		return "topdown"
	case DrawOrderIndex:
		return "index"
	default:
		return "unknown"
	}
}

func (do DrawOrder) IsValid() bool {
	return do >= DrawOrderTopDown && do <= DrawOrderIndex
}

func (do *DrawOrder) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, do)
}

// ======================================================
// Compression
// ======================================================

type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZlib
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZlib:
		return "zlib"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

func (c Compression) IsValid() bool {
	return c >= CompressionNone && c <= CompressionZstd
}

func (c *Compression) UnmarshalText(text []byte) error {
	if err := unmarshalEnum(text, c); err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedCompression, text)
	}
	return nil
}

// ======================================================
// Encoding
// ======================================================

// Encoding is the text encoding of a tile payload. EncodingNone means the
// payload is either an inline numeric sequence or structural tile entries.
type Encoding uint8

const (
	EncodingNone Encoding = iota
	EncodingCSV
	EncodingBase64
)

func (e Encoding) String() string {
	switch e {
	case EncodingNone:
		return "none"
	case EncodingCSV:
		return "csv"
	case EncodingBase64:
		return "base64"
	default:
		return "unknown"
	}
}

func (e Encoding) IsValid() bool {
	return e >= EncodingNone && e <= EncodingBase64
}

func (e *Encoding) UnmarshalText(text []byte) error {
	if err := unmarshalEnum(text, e); err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedEncoding, text)
	}
	return nil
}

// ======================================================
// ObjectAlignment
// ======================================================

type ObjectAlignment uint8

const (
	ObjectAlignmentUnspecified ObjectAlignment = iota
	ObjectAlignmentTopLeft
	ObjectAlignmentTop
	ObjectAlignmentTopRight
	ObjectAlignmentLeft
	ObjectAlignmentCenter
	ObjectAlignmentRight
	ObjectAlignmentBottomLeft
	ObjectAlignmentBottom
	ObjectAlignmentBottomRight
)

func (oa ObjectAlignment) String() string {
	switch oa {
	case ObjectAlignmentUnspecified:
		return "unspecified"
	case ObjectAlignmentTopLeft:
		return "topleft"
	case ObjectAlignmentTop:
		return "top"
	case ObjectAlignmentTopRight:
		return "topright"
	case ObjectAlignmentLeft:
		return "left"
	case ObjectAlignmentCenter:
		return "center"
	case ObjectAlignmentRight:
		return "right"
	case ObjectAlignmentBottomLeft:
		return "bottomleft"
	case ObjectAlignmentBottom:
		return "bottom"
	case ObjectAlignmentBottomRight:
		return "bottomright"
	default:
		return "unknown"
	}
}

func (oa ObjectAlignment) IsValid() bool {
	return oa >= ObjectAlignmentUnspecified && oa <= ObjectAlignmentBottomRight
}

func (oa *ObjectAlignment) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, oa)
}

// ======================================================
// Orientation
// ======================================================

type Orientation uint8

const (
	OrientationOrthogonal Orientation = iota
	OrientationIsometric
	OrientationStaggered
	OrientationHexagonal
)

func (o Orientation) String() string {
	switch o {
	case OrientationOrthogonal:
		return "orthogonal"
	case OrientationIsometric:
		return "isometric"
	case OrientationStaggered:
		return "staggered"
	case OrientationHexagonal:
		return "hexagonal"
	default:
		return "unknown"
	}
}

func (o Orientation) IsValid() bool {
	return o >= OrientationOrthogonal && o <= OrientationHexagonal
}

func (o *Orientation) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, o)
}

// ======================================================
// RenderOrder
// ======================================================

type RenderOrder uint8

const (
	RenderOrderRightDown RenderOrder = iota
	RenderOrderRightUp
	RenderOrderLeftDown
	RenderOrderLeftUp
)

func (ro RenderOrder) String() string {
	switch ro {
	case RenderOrderRightDown:
		return "right-down"
	case RenderOrderRightUp:
		return "right-up"
	case RenderOrderLeftDown:
		return "left-down"
	case RenderOrderLeftUp:
		return "left-up"
	default:
		return "unknown"
	}
}

func (ro RenderOrder) IsValid() bool {
	return ro >= RenderOrderRightDown && ro <= RenderOrderLeftUp
}

func (ro *RenderOrder) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, ro)
}

// ======================================================
// StaggerAxis
// ======================================================

// StaggerAxis is only meaningful for staggered and hexagonal maps.
// StaggerAxisUnspecified behaves as StaggerAxisY.
type StaggerAxis uint8

const (
	StaggerAxisUnspecified StaggerAxis = iota
	StaggerAxisX
	StaggerAxisY
)

func (sa StaggerAxis) String() string {
	switch sa {
	case StaggerAxisUnspecified:
		return "unspecified"
	case StaggerAxisX:
		return "x"
	case StaggerAxisY:
		return "y"
	default:
		return "unknown"
	}
}

func (sa StaggerAxis) IsValid() bool {
	return sa >= StaggerAxisUnspecified && sa <= StaggerAxisY
}

func (sa *StaggerAxis) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, sa)
}

// ======================================================
// StaggerIndex
// ======================================================

// StaggerIndexUnspecified behaves as StaggerIndexOdd.
type StaggerIndex uint8

const (
	StaggerIndexUnspecified StaggerIndex = iota
	StaggerIndexOdd
	StaggerIndexEven
)

func (si StaggerIndex) String() string {
	switch si {
	case StaggerIndexUnspecified:
		return "unspecified"
	case StaggerIndexOdd:
		return "odd"
	case StaggerIndexEven:
		return "even"
	default:
		return "unknown"
	}
}

func (si StaggerIndex) IsValid() bool {
	return si >= StaggerIndexUnspecified && si <= StaggerIndexEven
}

func (si *StaggerIndex) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, si)
}

// ======================================================
// TileRenderSize
// ======================================================

type TileRenderSize uint8

const (
	TileRenderSizeTile TileRenderSize = iota
	TileRenderSizeGrid
)

func (trs TileRenderSize) String() string {
	switch trs {
	case TileRenderSizeTile:
		return "tile"
	case TileRenderSizeGrid:
		return "grid"
	default:
		return "unknown"
	}
}

func (trs TileRenderSize) IsValid() bool {
	return trs >= TileRenderSizeTile && trs <= TileRenderSizeGrid
}

func (trs *TileRenderSize) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, trs)
}

// ======================================================
// FillMode
// ======================================================

type FillMode uint8

const (
	FillModeStretch FillMode = iota
	FillModePreserveAspectFit
)

func (fm FillMode) String() string {
	switch fm {
	case FillModeStretch:
		return "stretch"
	case FillModePreserveAspectFit:
		return "preserve-aspect-fit"
	default:
		return "unknown"
	}
}

func (fm FillMode) IsValid() bool {
	return fm >= FillModeStretch && fm <= FillModePreserveAspectFit
}

func (fm *FillMode) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, fm)
}

// ======================================================
// GridOrientation
// ======================================================

type GridOrientation uint8

const (
	GridOrientationOrthogonal GridOrientation = iota
	GridOrientationIsometric
)

func (g GridOrientation) String() string {
	switch g {
	case GridOrientationOrthogonal:
		return "orthogonal"
	case GridOrientationIsometric:
		return "isometric"
	default:
		return "unknown"
	}
}

func (g GridOrientation) IsValid() bool {
	return g >= GridOrientationOrthogonal && g <= GridOrientationIsometric
}

func (g *GridOrientation) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, g)
}

// ======================================================
// WangSetType
// ======================================================

type WangSetType uint8

const (
	WangSetTypeCorner WangSetType = iota
	WangSetTypeEdge
	WangSetTypeMixed
)

func (w WangSetType) String() string {
	switch w {
	case WangSetTypeCorner:
		return "corner"
	case WangSetTypeEdge:
		return "edge"
	case WangSetTypeMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

func (w WangSetType) IsValid() bool {
	return w >= WangSetTypeCorner && w <= WangSetTypeMixed
}

func (w *WangSetType) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, w)
}
