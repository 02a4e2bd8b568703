// pkg/logging/logging.go - structured logging for the AeroMedia setup tools.
//
// One setup run is one logging session: a timestamped directory under the
// configured log dir holding a plain-text setup.log plus an events.jsonl file
// for structured consumers. Console output mirrors the plain log, with ANSI
// colors when the console supports them.

package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/a-kowalenko/aeromedia-setup/pkg/config"
)

// LogLevel represents the severity of the log message.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// String returns the string representation of the LogLevel.
func (ll LogLevel) String() string {
	switch ll {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// parseLevel maps a config string to a LogLevel, defaulting to INFO.
func parseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Entry is the structured form written to events.jsonl.
type Entry struct {
	Time       int64                  `json:"time"`
	Timestamp  string                 `json:"timestamp"`
	Level      string                 `json:"level"`
	Message    string                 `json:"message"`
	PID        int64                  `json:"pid"`
	Hostname   string                 `json:"hostname"`
	SessionID  string                 `json:"session_id"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// Logger writes one setup session's log files plus console output.
type Logger struct {
	mu        sync.Mutex
	logger    *log.Logger
	logLevel  LogLevel
	logFile   *os.File
	jsonFile  *os.File
	sessionID string
	hostname  string
}

// keepSessions is how many old session directories survive cleanup.
const keepSessions = 10

var (
	instance *Logger
	once     sync.Once
)

// Init initializes the singleton Logger from the setup configuration.
// It must be called before any logging functions are used.
func Init(cfg *config.Configuration) error {
	var initErr error
	once.Do(func() {
		instance, initErr = newLogger(cfg)
	})
	return initErr
}

func newLogger(cfg *config.Configuration) (*Logger, error) {
	sessionStart := time.Now()
	sessionID := sessionStart.Format("2006-01-02-150405")

	logDir := filepath.Join(cfg.LogDir, sessionID)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", logDir, err)
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	l := &Logger{
		logLevel:  parseLevel(cfg.LogLevel),
		sessionID: sessionID,
		hostname:  hostname,
	}
	if cfg.Debug {
		l.logLevel = LevelDebug
	}

	var err error
	l.logFile, err = os.OpenFile(filepath.Join(logDir, "setup.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening setup.log: %w", err)
	}
	l.jsonFile, err = os.OpenFile(filepath.Join(logDir, "events.jsonl"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening events.jsonl: %w", err)
	}

	l.logger = log.New(io.MultiWriter(os.Stdout, l.logFile), "", 0)

	// One-shot batch tool: prune old sessions on startup instead of a ticker.
	pruneOldSessions(cfg.LogDir)

	return l, nil
}

// pruneOldSessions removes session directories beyond the retention count.
func pruneOldSessions(baseDir string) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return
	}
	var sessions []string
	for _, entry := range entries {
		// Session dirs are named YYYY-MM-DD-HHMMss.
		if entry.IsDir() && len(entry.Name()) == 17 && strings.Count(entry.Name(), "-") == 3 {
			sessions = append(sessions, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(sessions)))
	for i := keepSessions; i < len(sessions); i++ {
		os.RemoveAll(filepath.Join(baseDir, sessions[i]))
	}
}

// Close closes the log files if they are open.
func Close() {
	if instance == nil {
		return
	}
	instance.mu.Lock()
	defer instance.mu.Unlock()
	if instance.logFile != nil {
		instance.logFile.Close()
		instance.logFile = nil
	}
	if instance.jsonFile != nil {
		instance.jsonFile.Close()
		instance.jsonFile = nil
	}
}

func (l *Logger) logMessage(level LogLevel, message string, keyValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logger == nil || level > l.logLevel {
		return
	}

	now := time.Now()
	line := fmt.Sprintf("[%s] %-5s %s", now.Format("2006-01-02 15:04:05"), level.String(), message)

	properties := make(map[string]interface{})
	for i := 0; i+1 < len(keyValues); i += 2 {
		key := fmt.Sprintf("%v", keyValues[i])
		properties[key] = keyValues[i+1]
		line += fmt.Sprintf(" %s=%v", key, keyValues[i+1])
	}

	l.logger.Println(line)

	if l.jsonFile != nil {
		entry := Entry{
			Time:       now.Unix(),
			Timestamp:  now.Format(time.RFC3339),
			Level:      level.String(),
			Message:    message,
			PID:        int64(os.Getpid()),
			Hostname:   l.hostname,
			SessionID:  l.sessionID,
			Properties: properties,
		}
		if data, err := json.Marshal(entry); err == nil {
			l.jsonFile.WriteString(string(data) + "\n")
		}
	}

	if l.logFile != nil {
		l.logFile.Sync()
	}
}

// Info logs informational messages.
func Info(message string, keyValues ...interface{}) {
	if instance == nil {
		fmt.Printf("LOGGING NOT INITIALIZED: INFO %s %v\n", message, keyValues)
		return
	}
	instance.logMessage(LevelInfo, message, keyValues...)
}

// Debug logs debug messages.
func Debug(message string, keyValues ...interface{}) {
	if instance == nil {
		return
	}
	instance.logMessage(LevelDebug, message, keyValues...)
}

// Warn logs warning messages.
func Warn(message string, keyValues ...interface{}) {
	if instance == nil {
		fmt.Printf("LOGGING NOT INITIALIZED: WARN %s %v\n", message, keyValues)
		return
	}
	instance.logMessage(LevelWarn, message, keyValues...)
}

// Error logs error messages.
func Error(message string, keyValues ...interface{}) {
	if instance == nil {
		fmt.Printf("LOGGING NOT INITIALIZED: ERROR %s %v\n", message, keyValues)
		return
	}
	instance.logMessage(LevelError, message, keyValues...)
}
