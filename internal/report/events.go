package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType represents the type of event
type EventType string

const (
	EventIndex  EventType = "index"
	EventDelete EventType = "delete"
	EventCover  EventType = "cover"
	EventSkip   EventType = "skip"
	EventError  EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// levelPriority maps event levels to numeric priorities for comparison
var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event is a single reconciliation event
type Event struct {
	Timestamp time.Time  `json:"ts"`
	Level     EventLevel `json:"level"`
	Event     EventType  `json:"event"`
	UserID    string     `json:"user_id,omitempty"`
	FileID    int64      `json:"file_id,omitempty"`
	AlbumID   int64      `json:"album_id,omitempty"`
	Path      string     `json:"path,omitempty"`
	Action    string     `json:"action,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// EventLogger writes events to a JSONL file
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	minLevel EventLevel
}

// NewEventLogger creates a new event logger with a minimum log level
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("events-%s.jsonl", timestamp)
	path := filepath.Join(outputDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		minLevel: minLevel,
	}, nil
}

// NullLogger returns a logger that discards all events
func NullLogger() *EventLogger {
	return &EventLogger{}
}

// Path returns the path of the log file, or "" for a null logger
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Log writes an event if it meets the minimum level
func (l *EventLogger) Log(e *Event) {
	if l == nil || l.encoder == nil {
		return
	}
	if levelPriority[e.Level] < levelPriority[l.minLevel] {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.encoder.Encode(e)
}

// LogIndex records a successfully indexed file
func (l *EventLogger) LogIndex(userID string, fileID int64, path string) {
	l.Log(&Event{Level: LevelInfo, Event: EventIndex, UserID: userID, FileID: fileID, Path: path})
}

// LogSkip records a file skipped with a reason
func (l *EventLogger) LogSkip(userID string, fileID int64, path string, reason string) {
	l.Log(&Event{Level: LevelWarning, Event: EventSkip, UserID: userID, FileID: fileID, Path: path, Reason: reason})
}

// LogDelete records a deletion cascade entry point
func (l *EventLogger) LogDelete(userID string, fileID int64, action string) {
	l.Log(&Event{Level: LevelInfo, Event: EventDelete, UserID: userID, FileID: fileID, Action: action})
}

// LogCover records a cover assignment or clearing
func (l *EventLogger) LogCover(userID string, albumID int64, fileID int64, action string) {
	l.Log(&Event{Level: LevelDebug, Event: EventCover, UserID: userID, AlbumID: albumID, FileID: fileID, Action: action})
}

// Close closes the underlying file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
