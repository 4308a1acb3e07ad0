package compression

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

type Type uint8

const (
	TypeNone Type = iota
	TypeZSTD
)

// magic number every zstd frame starts with
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	encoderOnce sync.Once
	decoderOnce sync.Once
	encoder     *zstd.Encoder
	decoder     *zstd.Decoder
)

func zstdEncoder() *zstd.Encoder {
	encoderOnce.Do(func() {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			panic(err)
		}
		encoder = enc
	})
	return encoder
}

func zstdDecoder() *zstd.Decoder {
	decoderOnce.Do(func() {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			panic(err)
		}
		decoder = dec
	})
	return decoder
}

// Encode compresses data with the given compression type
func Encode(t Type, data []byte) ([]byte, error) {
	switch t {
	case TypeNone:
		return data, nil
	case TypeZSTD:
		cdata := zstdEncoder().EncodeAll(data, make([]byte, 0, len(data)/2))
		log.Debug().Msgf("Compressed %d bytes to %d bytes", len(data), len(cdata))
		return cdata, nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %d", t)
	}
}

// Decode decompresses data with the given compression type
func Decode(t Type, cdata []byte) ([]byte, error) {
	switch t {
	case TypeNone:
		return cdata, nil
	case TypeZSTD:
		data, err := zstdDecoder().DecodeAll(cdata, make([]byte, 0, len(cdata)*3))
		if err != nil {
			return nil, fmt.Errorf("zstd decode failed: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %d", t)
	}
}

// Detect reports TypeZSTD when data starts with a zstd frame header
func Detect(data []byte) Type {
	if len(data) >= len(zstdMagic) &&
		data[0] == zstdMagic[0] && data[1] == zstdMagic[1] &&
		data[2] == zstdMagic[2] && data[3] == zstdMagic[3] {
		return TypeZSTD
	}
	return TypeNone
}
