package logx

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Level define la severidad mínima que se escribe
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	currentLevel atomic.Int32
	logger       = log.New(os.Stdout, "", log.LstdFlags)
	mu           sync.Mutex
)

func init() {
	currentLevel.Store(int32(LevelInfo))
}

// SetLevel cambia el nivel mínimo de log
func SetLevel(l Level) {
	currentLevel.Store(int32(l))
}

// SetOutput redirige la salida (útil en tests)
func SetOutput(w *os.File) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

func enabled(l Level) bool {
	return l >= Level(currentLevel.Load())
}

func write(l Level, tag, msg string) {
	if !enabled(l) {
		return
	}
	logger.Printf("%s %s", tag, msg)
}

func Debug(msg string)                  { write(LevelDebug, "DEBUG", msg) }
func Info(msg string)                   { write(LevelInfo, "INFO ", msg) }
func Warn(msg string)                   { write(LevelWarn, "WARN ", msg) }
func Error(msg string)                  { write(LevelError, "ERROR", msg) }
func Debugf(format string, args ...any) { write(LevelDebug, "DEBUG", fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { write(LevelInfo, "INFO ", fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { write(LevelWarn, "WARN ", fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { write(LevelError, "ERROR", fmt.Sprintf(format, args...)) }

// Fatal / Fatalf escriben y terminan el proceso
func Fatal(msg string) {
	logger.Printf("FATAL %s", msg)
	os.Exit(1)
}

func Fatalf(format string, args ...any) {
	logger.Printf("FATAL %s", fmt.Sprintf(format, args...))
	os.Exit(1)
}

// ============================================================================
// Structured fields
// ============================================================================

// Fields son pares clave/valor adjuntos a una entrada de log
type Fields map[string]any

// Entry es una entrada con campos estructurados
type Entry struct {
	fields Fields
}

// WithFields crea una entrada con los campos dados
func WithFields(fields Fields) *Entry {
	return &Entry{fields: fields}
}

func (e *Entry) format(msg string) string {
	if len(e.fields) == 0 {
		return msg
	}

	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(msg)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.fields[k])
	}
	return b.String()
}

func (e *Entry) Debug(msg string)                  { write(LevelDebug, "DEBUG", e.format(msg)) }
func (e *Entry) Info(msg string)                   { write(LevelInfo, "INFO ", e.format(msg)) }
func (e *Entry) Warn(msg string)                   { write(LevelWarn, "WARN ", e.format(msg)) }
func (e *Entry) Error(msg string)                  { write(LevelError, "ERROR", e.format(msg)) }
func (e *Entry) Debugf(format string, args ...any) { e.Debug(fmt.Sprintf(format, args...)) }
func (e *Entry) Infof(format string, args ...any)  { e.Info(fmt.Sprintf(format, args...)) }
func (e *Entry) Warnf(format string, args ...any)  { e.Warn(fmt.Sprintf(format, args...)) }
func (e *Entry) Errorf(format string, args ...any) { e.Error(fmt.Sprintf(format, args...)) }
