package storage

import (
	"encoding/json"
	"fmt"

	"github.com/annel0/shopcraft/internal/world"
	"github.com/klauspost/compress/zstd"
)

// Формат значения: один байт формата, затем JSON или zstd(JSON)
const (
	formatJSON byte = 'j'
	formatZstd byte = 'z'
)

// Codec сериализует снимки планировки
type Codec struct {
	compress bool
	enc      *zstd.Encoder
	dec      *zstd.Decoder
}

// NewCodec создаёт кодек. Распаковка работает всегда, сжатие — если compress.
func NewCodec(compress bool) (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("не удалось создать zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("не удалось создать zstd decoder: %w", err)
	}
	return &Codec{compress: compress, enc: enc, dec: dec}, nil
}

// Encode упаковывает снимок
func (c *Codec) Encode(l world.Layout) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации планировки: %w", err)
	}
	if !c.compress {
		return append([]byte{formatJSON}, data...), nil
	}
	return c.enc.EncodeAll(data, []byte{formatZstd}), nil
}

// Decode распаковывает снимок любого из двух форматов
func (c *Codec) Decode(raw []byte) (world.Layout, error) {
	var l world.Layout
	if len(raw) == 0 {
		return l, fmt.Errorf("пустое значение")
	}

	data := raw[1:]
	switch raw[0] {
	case formatJSON:
	case formatZstd:
		var err error
		data, err = c.dec.DecodeAll(data, nil)
		if err != nil {
			return l, fmt.Errorf("ошибка распаковки zstd: %w", err)
		}
	default:
		return l, fmt.Errorf("неизвестный формат 0x%02x", raw[0])
	}

	if err := json.Unmarshal(data, &l); err != nil {
		return l, fmt.Errorf("ошибка десериализации планировки: %w", err)
	}
	return l, nil
}

// Close освобождает ресурсы zstd
func (c *Codec) Close() {
	c.enc.Close()
	c.dec.Close()
}
