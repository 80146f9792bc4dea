package provider

import (
	"testing"

	"github.com/Dicklesworthstone/osmonitor/internal/model"
	"github.com/Dicklesworthstone/osmonitor/internal/wire"
)

func TestSampler_CollectOS(t *testing.T) {
	s := NewSampler(nil)
	records, err := s.Collect([]model.Category{model.CategoryOS})
	if err != nil {
		t.Skipf("memory stats unavailable on this host: %v", err)
	}
	if len(records) != 1 || records[0].Category != model.CategoryOS {
		t.Fatalf("records: got %+v", records)
	}

	res := wire.NewDecoder(nil).Decode(records)
	if res.OS == nil {
		t.Fatalf("OS payload did not decode: %v", res.Skipped)
	}
	if res.OS.Total == 0 {
		t.Error("Total memory should be non-zero")
	}
	if res.OS.Available() > res.OS.Total {
		t.Errorf("available %d exceeds total %d", res.OS.Available(), res.OS.Total)
	}
}

func TestSampler_CollectProcessesDecode(t *testing.T) {
	s := NewSampler(nil)
	records, err := s.Collect([]model.Category{model.CategoryProcess})
	if err != nil {
		t.Skipf("process stats unavailable on this host: %v", err)
	}
	res := wire.NewDecoder(nil).Decode(records)
	if len(res.Skipped) != 0 {
		t.Errorf("sampler produced undecodable payloads: %v", res.Skipped)
	}
	for _, p := range res.Processes {
		if p.Name == "" {
			t.Errorf("process without name: %+v", p)
		}
	}
}

func TestSampler_UnsupportedCategory(t *testing.T) {
	s := NewSampler(nil)
	if _, err := s.Collect([]model.Category{model.Category(99)}); err == nil {
		t.Error("expected error for unsupported category")
	}
}
