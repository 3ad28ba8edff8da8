package loggers

import (
	"fmt"
	"io"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ComponentLogFormatter formats the log message with the component that produced it.
type ComponentLogFormatter struct {
	Formatter *log.JSONFormatter
	Type      string
	Name      string
}

// Format allows this to be used as a logrus formatter
func (f ComponentLogFormatter) Format(entry *log.Entry) ([]byte, error) {
	// Underscores force these to be in the front in order type -> name
	entry.Data["__type"] = f.Type
	entry.Data["_name"] = f.Name
	return f.Formatter.Format(entry)
}

// MakeComponentLogFormatter returns a JSON formatter tagging entries with the component type and name.
func MakeComponentLogFormatter(componentType string, componentName string) ComponentLogFormatter {
	return ComponentLogFormatter{
		Formatter: &log.JSONFormatter{
			DisableHTMLEscape: true,
		},
		Type: componentType,
		Name: componentName,
	}
}

// LoggerManager a manager that can produce loggers that are synchronized internally
type LoggerManager struct {
	internalWriter *ThreadSafeWriter
}

// MakeRootLogger returns a logger that is synchronized with the internal mutex
func (l *LoggerManager) MakeRootLogger(level log.Level, logFile string) (*log.Logger, error) {
	return l.MakeComponentLogger(level, logFile, "abicodec", "main")
}

// MakeComponentLogger returns a synchronized logger whose entries carry the component type and name.
func (l *LoggerManager) MakeComponentLogger(level log.Level, logFile string, componentType string, componentName string) (*log.Logger, error) {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return nil, fmt.Errorf("MakeComponentLogger(): %w", err)
		}
		l.internalWriter.Mutex.Lock()
		l.internalWriter.Writer = f
		l.internalWriter.Mutex.Unlock()
	}

	formatter := MakeComponentLogFormatter(componentType, componentName)
	logger := log.New()
	logger.SetFormatter(&formatter)
	logger.SetLevel(level)
	logger.SetOutput(l.internalWriter)
	return logger, nil
}

// MakeLoggerManager returns a logger manager
func MakeLoggerManager(writer io.Writer) *LoggerManager {
	return &LoggerManager{
		internalWriter: &ThreadSafeWriter{
			Writer: writer,
			Mutex:  &sync.Mutex{},
		},
	}
}

// ThreadSafeWriter a struct that implements io.Writer in a threadsafe way
type ThreadSafeWriter struct {
	Writer io.Writer
	Mutex  *sync.Mutex
}

// Write writes p bytes with the mutex
func (w *ThreadSafeWriter) Write(p []byte) (n int, err error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()
	return w.Writer.Write(p)
}
