package service

import (
	"log"
	"sync"
)

type LogLevel string

const (
	LogLevelDebug   LogLevel = "DEBUG"
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARNING"
	LogLevelError   LogLevel = "ERROR"
)

type LogServiceInterface interface {
	Log(message string, level LogLevel, force bool)
	Info(message string)
	InfoForce(message string)
	Warning(message string)
	Error(message string)
	GetLogs() []string
}

// LogService keeps the in-memory log list the UI reads and forwards each
// entry to the process log. With ReduceLogging set, informational entries
// are degraded to debug unless force is requested.
type LogService struct {
	ReduceLogging bool
	Verbose       bool

	mutex sync.Mutex
	logs  []string
}

func (l *LogService) Log(message string, level LogLevel, force bool) {
	l.mutex.Lock()
	l.logs = append(l.logs, message)
	l.mutex.Unlock()

	if level == LogLevelInfo && l.ReduceLogging && !force {
		level = LogLevelDebug
	}

	if level == LogLevelDebug && !l.Verbose {
		return
	}

	log.Printf("[%s] %s", level, message)
}

func (l *LogService) Info(message string) {
	l.Log(message, LogLevelInfo, false)
}

func (l *LogService) InfoForce(message string) {
	l.Log(message, LogLevelInfo, true)
}

func (l *LogService) Warning(message string) {
	l.Log(message, LogLevelWarning, false)
}

func (l *LogService) Error(message string) {
	l.Log(message, LogLevelError, false)
}

func (l *LogService) GetLogs() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	logs := make([]string, len(l.logs))
	copy(logs, l.logs)

	return logs
}
