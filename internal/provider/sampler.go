package provider

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/Dicklesworthstone/osmonitor/internal/model"
	"github.com/Dicklesworthstone/osmonitor/internal/wire"
)

// Sampler reads memory and per-process CPU from procfs via gopsutil and
// encodes them as provider payloads.
type Sampler struct {
	codec wire.Codec

	mu    sync.Mutex
	procs map[int32]*process.Process // keeps Percent baselines between polls
	cores int
}

func NewSampler(codec wire.Codec) *Sampler {
	if codec == nil {
		codec = wire.JSONCodec{}
	}
	cores, err := cpu.Counts(true)
	if err != nil || cores <= 0 {
		cores = 1
	}
	return &Sampler{
		codec: codec,
		procs: make(map[int32]*process.Process),
		cores: cores,
	}
}

// Collect builds one record per requested category. A category that fails is
// left out; if every category fails the error is returned.
func (s *Sampler) Collect(cats []model.Category) ([]model.RawRecord, error) {
	var (
		out  []model.RawRecord
		errs []error
	)
	for _, c := range cats {
		var (
			rec model.RawRecord
			err error
		)
		switch c {
		case model.CategoryOS:
			rec, err = s.osRecord()
		case model.CategoryProcess:
			rec, err = s.processRecord()
		default:
			err = fmt.Errorf("unsupported category %v", c)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
			continue
		}
		out = append(out, rec)
	}
	if len(out) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	for _, err := range errs {
		log.Printf("warning: sampler: %v", err)
	}
	return out, nil
}

func (s *Sampler) osRecord() (model.RawRecord, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return model.RawRecord{}, err
	}
	payload, err := s.codec.EncodeOS(model.OsSample{
		Total:    vm.Total,
		Free:     vm.Free,
		Buffered: vm.Buffers,
		Cached:   vm.Cached,
	})
	if err != nil {
		return model.RawRecord{}, err
	}
	return model.RawRecord{Category: model.CategoryOS, Payloads: [][]byte{payload}}, nil
}

func (s *Sampler) processRecord() (model.RawRecord, error) {
	procs, err := process.Processes()
	if err != nil {
		return model.RawRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := model.RawRecord{Category: model.CategoryProcess}
	seen := make(map[int32]*process.Process, len(procs))
	for _, p := range procs {
		// Skip kernel threads without name
		name, _ := p.Name()
		if name == "" {
			continue
		}
		tracked, ok := s.procs[p.Pid]
		if !ok {
			tracked = p
		}
		seen[p.Pid] = tracked

		pct, err := tracked.Percent(0)
		if err != nil {
			continue
		}
		uid := -1
		if uids, err := p.Uids(); err == nil && len(uids) > 0 {
			uid = int(uids[0])
		}
		owner, _ := p.Username()

		payload, err := s.codec.EncodeProcess(model.ProcessSample{
			Name:     name,
			PID:      int(p.Pid),
			UID:      uid,
			Owner:    owner,
			CPUUsage: pct / float64(s.cores),
		})
		if err != nil {
			continue
		}
		rec.Payloads = append(rec.Payloads, payload)
	}
	s.procs = seen
	return rec, nil
}

// Kill sends SIGKILL to pid.
func (s *Sampler) Kill(pid int) error {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return err
	}
	return p.Kill()
}
