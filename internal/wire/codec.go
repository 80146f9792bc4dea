package wire

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dicklesworthstone/osmonitor/internal/model"
)

var (
	ErrEmptyPayload = errors.New("empty payload")
	ErrMalformed    = errors.New("malformed payload")
)

// Codec turns samples into provider payloads and back. The core only cares
// about the decoded fields, so any byte layout will do.
type Codec interface {
	EncodeOS(model.OsSample) ([]byte, error)
	DecodeOS([]byte) (model.OsSample, error)
	EncodeProcess(model.ProcessSample) ([]byte, error)
	DecodeProcess([]byte) (model.ProcessSample, error)
}

// JSONCodec is the default payload codec.
type JSONCodec struct{}

func (JSONCodec) EncodeOS(s model.OsSample) ([]byte, error) {
	return json.Marshal(s)
}

func (JSONCodec) DecodeOS(b []byte) (model.OsSample, error) {
	var s model.OsSample
	if len(b) == 0 {
		return s, ErrEmptyPayload
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("%w: os: %v", ErrMalformed, err)
	}
	return s, nil
}

func (JSONCodec) EncodeProcess(s model.ProcessSample) ([]byte, error) {
	return json.Marshal(s)
}

func (JSONCodec) DecodeProcess(b []byte) (model.ProcessSample, error) {
	var s model.ProcessSample
	if len(b) == 0 {
		return s, ErrEmptyPayload
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("%w: process: %v", ErrMalformed, err)
	}
	if s.CPUUsage < 0 {
		return s, fmt.Errorf("%w: process %q: negative cpu usage %.2f", ErrMalformed, s.Name, s.CPUUsage)
	}
	return s, nil
}
