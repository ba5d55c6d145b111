package tmx

// MapContext is the static map metadata needed to place a tile on screen.
type MapContext struct {
	Orientation   Orientation
	TileWidth     int32
	TileHeight    int32
	HexSideLength int32
	StaggerAxis   StaggerAxis
	StaggerIndex  StaggerIndex
}

// Context returns the placement context of the map.
func (m *Map) Context() MapContext {
	return MapContext{
		Orientation:   m.Orientation,
		TileWidth:     m.TileWidth,
		TileHeight:    m.TileHeight,
		HexSideLength: m.HexSideLength,
		StaggerAxis:   m.StaggerAxis,
		StaggerIndex:  m.StaggerIndex,
	}
}

// TileToPixel returns the pixel offset of the top-left corner of the cell at
// (col, row). There is no inverse.
func TileToPixel(col, row int32, ctx MapContext) (x, y float64) {
	switch ctx.Orientation {
	case OrientationIsometric:
		return isometricToPixel(col, row, ctx)
	case OrientationStaggered:
		return staggeredToPixel(col, row, ctx)
	case OrientationHexagonal:
		return hexagonalToPixel(col, row, ctx)
	case OrientationOrthogonal:
		fallthrough
	default:
		return orthogonalToPixel(col, row, ctx)
	}
}

func orthogonalToPixel(col, row int32, ctx MapContext) (x, y float64) {
	return float64(col) * float64(ctx.TileWidth), float64(row) * float64(ctx.TileHeight)
}

// Diamond layout.
func isometricToPixel(col, row int32, ctx MapContext) (x, y float64) {
	halfW := float64(ctx.TileWidth) / 2
	halfH := float64(ctx.TileHeight) / 2
	return float64(col-row) * halfW, float64(col+row) * halfH
}

func staggeredToPixel(col, row int32, ctx MapContext) (x, y float64) {
	tw := float64(ctx.TileWidth)
	th := float64(ctx.TileHeight)

	if ctx.StaggerAxis == StaggerAxisX {
		x = float64(col) * (tw / 2)
		y = float64(row) * th
		if isStaggered(col, ctx.StaggerIndex) {
			y += th / 2
		}
		return x, y
	}

	x = float64(col) * tw
	y = float64(row) * (th / 2)
	if isStaggered(row, ctx.StaggerIndex) {
		x += tw / 2
	}
	return x, y
}

func hexagonalToPixel(col, row int32, ctx MapContext) (x, y float64) {
	tw := float64(ctx.TileWidth)
	th := float64(ctx.TileHeight)
	side := float64(ctx.HexSideLength)

	if ctx.StaggerAxis == StaggerAxisX {
		x = float64(col) * ((tw + side) / 2)
		y = float64(row) * th
		if isStaggered(col, ctx.StaggerIndex) {
			y += th / 2
		}
		return x, y
	}

	x = float64(col) * tw
	y = float64(row) * ((th + side) / 2)
	if isStaggered(row, ctx.StaggerIndex) {
		x += tw / 2
	}
	return x, y
}

// isStaggered reports whether index i falls on the shifted parity.
func isStaggered(i int32, index StaggerIndex) bool {
	if index == StaggerIndexEven {
		return i%2 == 0
	}
	return i%2 != 0
}
