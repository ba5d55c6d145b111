package tmx

import "errors"

var (
	ErrUnsupportedEncoding    = errors.New("unsupported encoding")
	ErrUnsupportedCompression = errors.New("unsupported compression")
	ErrStreamRequired         = errors.New("compressed payload requires the streaming decoder")
	ErrMalformedPayload       = errors.New("malformed tile payload")
	ErrUnknownLayerType       = errors.New("unknown layer type")
	ErrInvalidDocument        = errors.New("invalid document")
)
