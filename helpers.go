package tmx

// LayerByName returns the first layer named name, searching groups depth-first.
func LayerByName(m *Map, name string) Layer {
	return findLayer(m.Layers, name)
}

func findLayer(layers []Layer, name string) Layer {
	for _, l := range layers {
		if l.Common().Name == name {
			return l
		}
		if g, ok := l.(*Group); ok {
			if found := findLayer(g.Layers, name); found != nil {
				return found
			}
		}
	}
	return nil
}

func ObjectByName(og *ObjectGroup, name string) *Object {
	for i := range og.Objects {
		if og.Objects[i].Name == name {
			return &og.Objects[i]
		}
	}
	return nil
}

func PropertyByName(props []Property, name string) *Property {
	for i := range props {
		if props[i].Name == name {
			return &props[i]
		}
	}
	return nil
}

func PropertyByType(props []Property, propertyType string) *Property {
	for i := range props {
		if props[i].PropertyType == propertyType {
			return &props[i]
		}
	}
	return nil
}

// TileDefinitionByID scans the tileset's explicit tile entries.
func TileDefinitionByID(ts *Tileset, id uint32) *TileDefinition {
	for i := range ts.Tiles {
		if ts.Tiles[i].ID == id {
			return &ts.Tiles[i]
		}
	}
	return nil
}

func ObjectAlignmentAnchor(alignment ObjectAlignment) (ax, ay float32) {
	switch alignment {
	case ObjectAlignmentTop:
		return 0.5, 0.0
	case ObjectAlignmentTopRight:
		return 1.0, 0.0
	case ObjectAlignmentRight:
		return 1.0, 0.5
	case ObjectAlignmentBottomRight:
		return 1.0, 1.0
	case ObjectAlignmentBottom:
		return 0.5, 1.0
	case ObjectAlignmentBottomLeft:
		return 0.0, 1.0
	case ObjectAlignmentLeft:
		return 0.0, 0.5
	case ObjectAlignmentCenter:
		return 0.5, 0.5
	case ObjectAlignmentTopLeft:
		fallthrough
	default:
		return 0.0, 0.0
	}
}
