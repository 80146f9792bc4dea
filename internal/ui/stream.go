package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Dicklesworthstone/osmonitor/internal/model"
)

// Snapshotter returns the current read model.
type Snapshotter interface {
	Snapshot() model.Snapshot
}

// streamLine is one NDJSON record.
type streamLine struct {
	model.Snapshot
	View View `json:"view"`
}

// StreamJSON writes one line per completed cycle until ctx is done. With once
// set it returns after the first line.
func StreamJSON(ctx context.Context, w io.Writer, updates <-chan struct{}, src Snapshotter, prefs Prefs, once bool) error {
	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-updates:
			snap := src.Snapshot()
			if err := enc.Encode(streamLine{Snapshot: snap, View: Render(snap, prefs)}); err != nil {
				return fmt.Errorf("writing snapshot: %w", err)
			}
			if once {
				return nil
			}
		}
	}
}
