//go:build windows

package platform

import "os"

// SelfUID is always -1 on Windows.
func SelfUID() int {
	return os.Getuid()
}

func kill(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
