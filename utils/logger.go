package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Logger provides leveled logging throughout the application.
// A Logger may carry a Sink that receives a copy of every record.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	debug *log.Logger
	sink  *Sink
}

// NewLogger creates a new Logger writing to stdout/stderr.
func NewLogger() *Logger {
	flags := 0
	return &Logger{
		info:  log.New(os.Stdout, "", flags),
		warn:  log.New(os.Stdout, "", flags),
		err:   log.New(os.Stderr, "", flags),
		debug: log.New(os.Stdout, "", flags),
	}
}

// NewLoggerTo creates a Logger sending every level to w.
func NewLoggerTo(w io.Writer) *Logger {
	l := log.New(w, "", 0)
	return &Logger{info: l, warn: l, err: l, debug: l}
}

// WithSink returns a copy of the logger that also records into s.
func (l *Logger) WithSink(s *Sink) *Logger {
	c := *l
	c.sink = s
	return &c
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.info.Printf("[%s] \033[32mINFO\033[0m  %s\n", l.timestamp(), msg)
	l.sink.Add(LevelInfo, msg)
}

func (l *Logger) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.warn.Printf("[%s] \033[33mWARN\033[0m  %s\n", l.timestamp(), msg)
	l.sink.Add(LevelWarn, msg)
}

func (l *Logger) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.err.Printf("[%s] \033[31mERROR\033[0m %s\n", l.timestamp(), msg)
	l.sink.Add(LevelError, msg)
}

func (l *Logger) Debug(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.debug.Printf("[%s] \033[36mDEBUG\033[0m %s\n", l.timestamp(), msg)
	l.sink.Add(LevelDebug, msg)
}

// Record levels.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
	LevelDebug = "debug"
)

// Record is one diagnostic entry captured by a Sink.
type Record struct {
	Time    time.Time `json:"timestamp"`
	Level   string    `json:"type"`
	Message string    `json:"message"`
}

// Sink accumulates diagnostic records for a single request.
// It is safe for concurrent use; a nil *Sink discards everything.
type Sink struct {
	mu      sync.Mutex
	records []Record
}

// NewSink creates an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add appends a record.
func (s *Sink) Add(level, msg string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, Record{Time: time.Now(), Level: level, Message: msg})
}

// Records returns a copy of everything captured so far.
func (s *Sink) Records() []Record {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of captured records.
func (s *Sink) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
