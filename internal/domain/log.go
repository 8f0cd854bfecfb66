package domain

import "time"

// LogType classifies a narrative log line for presentation.
type LogType string

const (
	LogInfo    LogType = "info"
	LogSuccess LogType = "success"
	LogWarning LogType = "warning"
	LogError   LogType = "error"
	LogTurn    LogType = "turn"
)

// LogEntry is one line of the append-only game narrative.
type LogEntry struct {
	Seq     int
	Message string
	Type    LogType
	At      time.Time
}
