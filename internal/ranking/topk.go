package ranking

import "github.com/Dicklesworthstone/osmonitor/internal/model"

// Labeler resolves a process to the label shown in its slot.
type Labeler interface {
	Resolve(rawName string, uid int, owner string) string
}

// Board holds the three highest CPU consumers of one cycle.
type Board struct {
	slots   [model.TopSlots]model.TopEntry
	total   float64
	labeler Labeler
}

func NewBoard(l Labeler) *Board {
	return &Board{labeler: l}
}

// Reset clears every slot and the running total.
func (b *Board) Reset() {
	b.slots = [model.TopSlots]model.TopEntry{}
	b.total = 0
}

// Offer adds a sample to the total and inserts it into the first slot whose
// usage is strictly lower. Ties keep the earlier sample.
func (b *Board) Offer(p model.ProcessSample) {
	b.total += p.CPUUsage

	for i := 0; i < len(b.slots); i++ {
		if b.slots[i].CPUUsage >= p.CPUUsage {
			continue
		}
		copy(b.slots[i+1:], b.slots[i:len(b.slots)-1])
		b.slots[i] = model.TopEntry{CPUUsage: p.CPUUsage, Label: b.label(p)}
		return
	}
}

func (b *Board) label(p model.ProcessSample) string {
	if b.labeler == nil {
		return p.Name
	}
	return b.labeler.Resolve(p.Name, p.UID, p.Owner)
}

// Top returns the slots in rank order.
func (b *Board) Top() [model.TopSlots]model.TopEntry { return b.slots }

// Total is the summed usage of every offered sample.
func (b *Board) Total() float64 { return b.total }

// Rank resets the board, offers every sample in order and returns the result.
func (b *Board) Rank(samples []model.ProcessSample) ([model.TopSlots]model.TopEntry, float64) {
	b.Reset()
	for _, p := range samples {
		b.Offer(p)
	}
	return b.slots, b.total
}
