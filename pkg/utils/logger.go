package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger for debug messages
var (
	mu        sync.Mutex
	isVerbose = false
	logFile   *os.File
)

// Log prints debug messages to the log file if verbose mode is enabled
func Log(text string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if isVerbose && logFile != nil {
		fmt.Fprintf(logFile, time.Now().Format("15:04:05")+" "+text+"\n", args...)
	}
}

// InitLogger initializes the logging system. The log file is created in dir,
// or in the system temp directory when dir is empty.
func InitLogger(verbose bool, dir string) error {
	mu.Lock()
	isVerbose = verbose
	mu.Unlock()

	if !verbose {
		return nil
	}

	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create log filename with current date
	logFileName := filepath.Join(dir, fmt.Sprintf("todocal_%s.log", time.Now().Format("2006-01-02")))

	f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("error creating log file: %w", err)
	}

	mu.Lock()
	logFile = f
	mu.Unlock()

	Log("Verbose logging enabled")
	return nil
}

// LogPath returns the path of the open log file, or "" when logging is off
func LogPath() string {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return ""
	}
	return logFile.Name()
}

// CloseLogger closes the log file if it's open
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	isVerbose = false
}
