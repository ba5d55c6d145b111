package tilemap

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMap             = errors.New("invalid map")
	ErrMissingExternalTileset = errors.New("external tileset not provided")
	ErrTilesetNotFound        = errors.New("tileset not found")
)

// MissingTilesetError reports a tileset reference whose source was not in
// the lookup table given to WithExternalTilesets.
type MissingTilesetError struct {
	Source string
}

func (e *MissingTilesetError) Error() string {
	return fmt.Sprintf("external tileset %q not provided; pass it with WithExternalTilesets", e.Source)
}

func (e *MissingTilesetError) Is(target error) bool {
	return target == ErrMissingExternalTileset
}
