package tmx

import "slices"

// Clone helpers return deep copies so a resolved map never shares memory
// with the document it was built from. nil slices and pointers stay nil.

func cloneValue[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// CloneProperties deep-copies a property list, including class members.
func CloneProperties(props []Property) []Property {
	if props == nil {
		return nil
	}
	out := make([]Property, len(props))
	for i, p := range props {
		out[i] = p
		out[i].Properties = CloneProperties(p.Properties)
	}
	return out
}

// CloneObjects deep-copies an object list.
func CloneObjects(objects []Object) []Object {
	if objects == nil {
		return nil
	}
	out := make([]Object, len(objects))
	for i := range objects {
		out[i] = objects[i].Clone()
	}
	return out
}

func (o *Object) Clone() Object {
	c := *o
	c.Polygon = slices.Clone(o.Polygon)
	c.Polyline = slices.Clone(o.Polyline)
	if o.Text != nil {
		text := *o.Text
		text.Kerning = cloneValue(o.Text.Kerning)
		c.Text = &text
	}
	c.Properties = CloneProperties(o.Properties)
	return c
}

func (lc *LayerCommon) Clone() LayerCommon {
	c := *lc
	c.Opacity = cloneValue(lc.Opacity)
	c.OffsetX = cloneValue(lc.OffsetX)
	c.OffsetY = cloneValue(lc.OffsetY)
	c.ParallaxX = cloneValue(lc.ParallaxX)
	c.ParallaxY = cloneValue(lc.ParallaxY)
	c.Properties = CloneProperties(lc.Properties)
	return c
}

func (og *ObjectGroup) Clone() *ObjectGroup {
	if og == nil {
		return nil
	}
	return &ObjectGroup{
		LayerCommon: og.LayerCommon.Clone(),
		Color:       og.Color,
		DrawOrder:   og.DrawOrder,
		Objects:     CloneObjects(og.Objects),
	}
}

func (td *TileDefinition) Clone() TileDefinition {
	c := *td
	c.Image = cloneValue(td.Image)
	c.Animation = slices.Clone(td.Animation)
	c.ObjectGroup = td.ObjectGroup.Clone()
	c.Properties = CloneProperties(td.Properties)
	return c
}

func (g *Grid) Clone() *Grid {
	return cloneValue(g)
}

func (t *Transformations) Clone() *Transformations {
	return cloneValue(t)
}

// CloneWangSets deep-copies wang sets with their colors and tiles.
func CloneWangSets(sets []WangSet) []WangSet {
	if sets == nil {
		return nil
	}
	out := make([]WangSet, len(sets))
	for i, ws := range sets {
		out[i] = ws
		out[i].Properties = CloneProperties(ws.Properties)

		if ws.Colors != nil {
			out[i].Colors = make([]WangColor, len(ws.Colors))
			for j, wc := range ws.Colors {
				out[i].Colors[j] = wc
				out[i].Colors[j].Properties = CloneProperties(wc.Properties)
			}
		}
		if ws.WangTiles != nil {
			out[i].WangTiles = make([]WangTile, len(ws.WangTiles))
			for j, wt := range ws.WangTiles {
				out[i].WangTiles[j] = WangTile{TileID: wt.TileID, WangID: slices.Clone(wt.WangID)}
			}
		}
	}
	return out
}
