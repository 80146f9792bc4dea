package wire

import (
	"fmt"

	"github.com/Dicklesworthstone/osmonitor/internal/model"
)

// Skip records a payload that could not be decoded.
type Skip struct {
	Category model.Category
	Record   int
	Payload  int
	Reason   error
}

func (s Skip) String() string {
	return fmt.Sprintf("%s record %d payload %d: %v", s.Category, s.Record, s.Payload, s.Reason)
}

// Result is a decoded batch. Processes keep decode order.
type Result struct {
	OS        *model.OsSample
	Processes []model.ProcessSample
	Skipped   []Skip
}

// Decoder turns raw provider batches into typed samples.
type Decoder struct {
	Codec Codec
}

func NewDecoder(c Codec) *Decoder {
	if c == nil {
		c = JSONCodec{}
	}
	return &Decoder{Codec: c}
}

// Decode walks the batch in order. A bad payload is recorded in Skipped and
// never stops the rest of the batch.
func (d *Decoder) Decode(records []model.RawRecord) Result {
	var res Result
	for ri, rec := range records {
		switch rec.Category {
		case model.CategoryOS:
			if len(rec.Payloads) == 0 {
				res.Skipped = append(res.Skipped, Skip{Category: rec.Category, Record: ri, Reason: ErrEmptyPayload})
				continue
			}
			sample, err := d.Codec.DecodeOS(rec.Payloads[0])
			if err != nil {
				res.Skipped = append(res.Skipped, Skip{Category: rec.Category, Record: ri, Reason: err})
				continue
			}
			// last OS record wins
			res.OS = &sample

		case model.CategoryProcess:
			for pi, payload := range rec.Payloads {
				p, err := d.Codec.DecodeProcess(payload)
				if err != nil {
					res.Skipped = append(res.Skipped, Skip{Category: rec.Category, Record: ri, Payload: pi, Reason: err})
					continue
				}
				res.Processes = append(res.Processes, p)
			}
		}
	}
	return res
}
