package wire

import (
	"errors"
	"testing"

	"github.com/Dicklesworthstone/osmonitor/internal/model"
)

func mustOS(t *testing.T, s model.OsSample) []byte {
	t.Helper()
	b, err := JSONCodec{}.EncodeOS(s)
	if err != nil {
		t.Fatalf("EncodeOS: %v", err)
	}
	return b
}

func mustProc(t *testing.T, s model.ProcessSample) []byte {
	t.Helper()
	b, err := JSONCodec{}.EncodeProcess(s)
	if err != nil {
		t.Fatalf("EncodeProcess: %v", err)
	}
	return b
}

func TestDecode_MemoryScenario(t *testing.T) {
	d := NewDecoder(nil)
	res := d.Decode([]model.RawRecord{{
		Category: model.CategoryOS,
		Payloads: [][]byte{mustOS(t, model.OsSample{Total: 1000, Free: 200, Buffered: 50, Cached: 50})},
	}})

	if res.OS == nil {
		t.Fatal("expected OS sample")
	}
	if got := res.OS.Available(); got != 300 {
		t.Errorf("Available: got %d, want 300", got)
	}
	if res.OS.Total != 1000 {
		t.Errorf("Total: got %d, want 1000", res.OS.Total)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("unexpected skips: %v", res.Skipped)
	}
}

func TestDecode_LastOSWins(t *testing.T) {
	d := NewDecoder(nil)
	res := d.Decode([]model.RawRecord{
		{Category: model.CategoryOS, Payloads: [][]byte{mustOS(t, model.OsSample{Total: 1})}},
		{Category: model.CategoryOS, Payloads: [][]byte{mustOS(t, model.OsSample{Total: 2})}},
	})
	if res.OS == nil || res.OS.Total != 2 {
		t.Fatalf("expected last OS record (Total=2), got %+v", res.OS)
	}
}

func TestDecode_MalformedProcessIsIsolated(t *testing.T) {
	d := NewDecoder(nil)
	res := d.Decode([]model.RawRecord{
		{Category: model.CategoryProcess, Payloads: [][]byte{
			mustProc(t, model.ProcessSample{Name: "a", CPUUsage: 10}),
			[]byte("{not json"),
			nil,
			mustProc(t, model.ProcessSample{Name: "b", CPUUsage: 20}),
		}},
		{Category: model.CategoryOS, Payloads: [][]byte{mustOS(t, model.OsSample{Total: 42})}},
	})

	if len(res.Processes) != 2 {
		t.Fatalf("Processes: got %d, want 2", len(res.Processes))
	}
	if res.Processes[0].Name != "a" || res.Processes[1].Name != "b" {
		t.Errorf("decode order not preserved: %+v", res.Processes)
	}
	if res.OS == nil || res.OS.Total != 42 {
		t.Errorf("OS sample lost after bad process payload: %+v", res.OS)
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("Skipped: got %d, want 2", len(res.Skipped))
	}
	if !errors.Is(res.Skipped[0].Reason, ErrMalformed) {
		t.Errorf("first skip reason: got %v, want ErrMalformed", res.Skipped[0].Reason)
	}
	if res.Skipped[0].Payload != 1 {
		t.Errorf("first skip payload index: got %d, want 1", res.Skipped[0].Payload)
	}
	if !errors.Is(res.Skipped[1].Reason, ErrEmptyPayload) {
		t.Errorf("second skip reason: got %v, want ErrEmptyPayload", res.Skipped[1].Reason)
	}
}

func TestDecode_MalformedOSKeepsEarlier(t *testing.T) {
	d := NewDecoder(nil)
	res := d.Decode([]model.RawRecord{
		{Category: model.CategoryOS, Payloads: [][]byte{mustOS(t, model.OsSample{Total: 7})}},
		{Category: model.CategoryOS, Payloads: [][]byte{[]byte("garbage")}},
		{Category: model.CategoryOS},
	})
	if res.OS == nil || res.OS.Total != 7 {
		t.Fatalf("expected earlier OS sample to survive, got %+v", res.OS)
	}
	if len(res.Skipped) != 2 {
		t.Errorf("Skipped: got %d, want 2", len(res.Skipped))
	}
}

func TestDecodeProcess_RejectsNegativeUsage(t *testing.T) {
	_, err := JSONCodec{}.DecodeProcess([]byte(`{"name":"x","cpu":-1}`))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
}

func TestDecode_Empty(t *testing.T) {
	res := NewDecoder(nil).Decode(nil)
	if res.OS != nil || len(res.Processes) != 0 || len(res.Skipped) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}
