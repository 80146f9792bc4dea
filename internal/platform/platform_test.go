package platform

import "testing"

func TestKillProcess_InvalidPID(t *testing.T) {
	for _, pid := range []int{0, -1} {
		if err := KillProcess(pid); err == nil {
			t.Errorf("KillProcess(%d): expected error", pid)
		}
	}
}
