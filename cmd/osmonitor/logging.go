package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

const (
	envLogFile = "OSMONITOR_LOG_FILE"
	envLogDir  = "OSMONITOR_LOG_DIR"
	logName    = "osmonitor.log"
)

var errNoLogDir = errors.New("no log directory")

// setupLogging sends the standard logger to osmonitor.log. The TUI owns the
// terminal, so stderr only gets a copy in the JSON modes.
func setupLogging(interactive bool) (func() error, string, error) {
	path, err := logPath()
	if err != nil {
		return nil, "", err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("log file %s: %w", path, err)
	}

	var out io.Writer = f
	if !interactive {
		out = io.MultiWriter(f, os.Stderr)
	}
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f.Close, path, nil
}

// logPath picks OSMONITOR_LOG_FILE, then OSMONITOR_LOG_DIR, then the user
// cache dir, then the working directory, creating the parent as needed.
func logPath() (string, error) {
	if p := os.Getenv(envLogFile); p != "" {
		if err := mkdirLog(filepath.Dir(p)); err != nil {
			return "", err
		}
		return p, nil
	}

	dir := os.Getenv(envLogDir)
	if dir == "" {
		dir = defaultLogDir()
	}
	if err := mkdirLog(dir); err != nil {
		return "", err
	}
	return filepath.Join(dir, logName), nil
}

func defaultLogDir() string {
	if cache, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cache, "osmonitor")
	}
	cwd, _ := os.Getwd()
	return cwd
}

func mkdirLog(dir string) error {
	if dir == "" {
		return errNoLogDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("log dir %s: %w", dir, err)
	}
	return nil
}
