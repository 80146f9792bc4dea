// Package platform holds the few OS calls the monitor makes about itself.
package platform

import "fmt"

// KillProcess terminates pid directly, without going through the provider.
func KillProcess(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("kill: invalid pid %d", pid)
	}
	if err := kill(pid); err != nil {
		return fmt.Errorf("kill %d: %w", pid, err)
	}
	return nil
}
