package tmx

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

const (
	FlipHorizontalFlag uint32 = 0x80000000
	FlipVerticalFlag   uint32 = 0x40000000
	FlipDiagonalFlag   uint32 = 0x20000000
	// RotateHexFlag marks a 120° rotation on hexagonal maps. It is masked
	// out of the gid but not decoded into a flip flag.
	RotateHexFlag uint32 = 0x10000000
	GIDMask       uint32 = 0x0FFFFFFF
)

// streamChunkSize is the read size used when draining a decompression stream.
const streamChunkSize = 4 << 10

// DecodedTile is the identity of one non-empty grid cell. When a gid is
// below every tileset's firstgid the tile is attributed to tileset 0 and
// LocalID is left at 0; it does not name local tile 0 in that case.
type DecodedTile struct {
	GID          uint32   // Global id with flag bits stripped
	LocalID      uint32   // Id within the owning tileset
	TilesetIndex int      // Index into the resolved tileset sequence
	Flip         FlipFlag // Flip flags
}

// DecodeGID splits a raw identifier into its gid and flip flags. It reports
// false for empty cells. LocalID and TilesetIndex are left at zero; the
// resolver fills them in once the owning tileset is known.
func DecodeGID(raw uint32) (DecodedTile, bool) {
	gid := raw & GIDMask
	if gid == 0 {
		return DecodedTile{}, false
	}

	var flags FlipFlag
	if raw&FlipHorizontalFlag != 0 {
		flags |= FlipHorizontal
	}
	if raw&FlipVerticalFlag != 0 {
		flags |= FlipVertical
	}
	if raw&FlipDiagonalFlag != 0 {
		flags |= FlipDiagonal
	}

	return DecodedTile{GID: gid, Flip: flags}, true
}

// DecodePayload turns a tile payload into raw gids in row-major order.
//
// Compressed base64 payloads fail with an error matching both
// ErrUnsupportedCompression and ErrStreamRequired; use DecodePayloadStream
// for those.
func DecodePayload(p Payload, encoding Encoding, compression Compression) ([]uint32, error) {
	return decodePayload(p, encoding, compression, func(_ []byte, c Compression) ([]byte, error) {
		return nil, fmt.Errorf("%w %s: %w", ErrUnsupportedCompression, c, ErrStreamRequired)
	})
}

// DecodePayloadStream is DecodePayload with gzip and zlib support. The
// decompressed bytes are drained from the stream chunk by chunk; ctx is
// checked between chunks.
func DecodePayloadStream(ctx context.Context, p Payload, encoding Encoding, compression Compression) ([]uint32, error) {
	return decodePayload(p, encoding, compression, func(data []byte, c Compression) ([]byte, error) {
		return decompress(ctx, data, c)
	})
}

// Decode decodes the layer-level payload without decompression support.
func (dt *Data) Decode() ([]uint32, error) {
	return DecodePayload(dt.Payload, dt.Encoding, dt.Compression)
}

// DecodeStream decodes the layer-level payload, decompressing if needed.
func (dt *Data) DecodeStream(ctx context.Context) ([]uint32, error) {
	return DecodePayloadStream(ctx, dt.Payload, dt.Encoding, dt.Compression)
}

type inflateFunc func(data []byte, compression Compression) ([]byte, error)

func decodePayload(p Payload, encoding Encoding, compression Compression, inflate inflateFunc) ([]uint32, error) {
	if p.GIDs != nil {
		return p.GIDs, nil
	}

	switch encoding {
	case EncodingBase64:
		return decodeBase64(p.Text, compression, inflate)
	case EncodingCSV:
		return decodeCSV(p.Text)
	case EncodingNone:
		return decodeTiles(p.Tiles), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, encoding)
}

func decodeTiles(tiles []DataTile) []uint32 {
	data := make([]uint32, len(tiles))
	for i := range tiles {
		data[i] = tiles[i].GID
	}
	return data
}

func decodeCSV(content string) ([]uint32, error) {
	var data []uint32
	for s := range strings.SplitSeq(content, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		gid, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: csv entry %q: %w", ErrMalformedPayload, s, err)
		}
		data = append(data, uint32(gid))
	}
	return data, nil
}

func decodeBase64(content string, compression Compression, inflate inflateFunc) ([]uint32, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(content))
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %w", ErrMalformedPayload, err)
	}

	switch compression {
	case CompressionNone:
	case CompressionGzip, CompressionZlib:
		decoded, err = inflate(decoded, compression)
		if err != nil {
			return nil, err
		}
	case CompressionZstd:
		return nil, fmt.Errorf("%w: %s is not supported", ErrUnsupportedCompression, compression)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, compression)
	}

	return bytesToGIDs(decoded), nil
}

// bytesToGIDs reads consecutive little-endian uint32 values. A trailing
// remainder shorter than four bytes is dropped.
func bytesToGIDs(b []byte) []uint32 {
	data := make([]uint32, len(b)/4)
	for i := range data {
		data[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return data
}

func decompress(ctx context.Context, data []byte, compression Compression) ([]byte, error) {
	reader, err := newDecompressor(bytes.NewReader(data), compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedPayload, compression, err)
	}
	defer reader.Close()

	var decompressed bytes.Buffer
	buf := make([]byte, streamChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := reader.Read(buf)
		decompressed.Write(buf[:n])
		if err == io.EOF {
			return decompressed.Bytes(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedPayload, compression, err)
		}
	}
}

func newDecompressor(r io.Reader, compression Compression) (io.ReadCloser, error) {
	switch compression {
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return gz, nil
	case CompressionZlib:
		return zlib.NewReader(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, compression)
}
