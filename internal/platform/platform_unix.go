//go:build !windows

package platform

import "golang.org/x/sys/unix"

// SelfUID is the uid this process runs as.
func SelfUID() int {
	return unix.Getuid()
}

func kill(pid int) error {
	return unix.Kill(pid, unix.SIGKILL)
}
