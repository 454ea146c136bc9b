package changefeed

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/annel0/world-resilience/internal/erosion"
	"github.com/klauspost/compress/zstd"
)

// ErrEmptyPayload возвращается для конверта без полезной нагрузки
var ErrEmptyPayload = errors.New("changefeed: пустая полезная нагрузка")

// Record описывает одно изменение тайла в ленте
type Record struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}

// Batch содержит все изменения одного прохода эрозии
type Batch struct {
	Tick      uint64    `json:"tick"`
	Timestamp time.Time `json:"ts"`
	Changes   []Record  `json:"changes"`
}

// Codec кодирует пакеты в JSON и сжимает их zstd.
// EncodeAll/DecodeAll безопасны для конкурентного использования.
type Codec struct {
	compressor   *zstd.Encoder
	decompressor *zstd.Decoder
}

// NewCodec создаёт кодек со скоростью сжатия по умолчанию
func NewCodec() (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &Codec{compressor: enc, decompressor: dec}, nil
}

// NewBatch переводит изменения прохода в записи ленты
func NewBatch(tick uint64, changes []erosion.Change) *Batch {
	b := &Batch{
		Tick:      tick,
		Timestamp: time.Now().UTC(),
		Changes:   make([]Record, 0, len(changes)),
	}
	for _, c := range changes {
		b.Changes = append(b.Changes, Record{
			X:    c.Pos.X,
			Y:    c.Pos.Y,
			From: c.From.String(),
			To:   c.To.String(),
			Kind: c.Kind.String(),
		})
	}
	return b
}

// Encode сериализует и сжимает пакет
func (c *Codec) Encode(b *Batch) ([]byte, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal batch: %w", err)
	}
	return c.compressor.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// Decode распаковывает и разбирает пакет
func (c *Codec) Decode(payload []byte) (*Batch, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	raw, err := c.decompressor.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	var b Batch
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("unmarshal batch: %w", err)
	}
	return &b, nil
}

// Close освобождает ресурсы zstd
func (c *Codec) Close() {
	c.compressor.Close()
	c.decompressor.Close()
}
