// Package logging wires the engine's structured logger singleton, following
// this codebase's convention of a single arbor.ILogger accessed through a
// mutex-guarded package-level accessor rather than threaded through every
// call site.
package logging

import (
	"sync"

	"github.com/ternarybob/arbor"
	arborcommon "github.com/ternarybob/arbor/common"
	"github.com/ternarybob/arbor/models"

	"github.com/ternarybob/matchengine/internal/config"
)

var (
	globalLogger arbor.ILogger
	mu           sync.RWMutex
)

// Get returns the global logger, falling back to a console logger with a
// warning if Init hasn't been called yet.
func Get() arbor.ILogger {
	mu.RLock()
	if globalLogger != nil {
		defer mu.RUnlock()
		return globalLogger
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		globalLogger = arbor.NewLogger().WithConsoleWriter(writerConfig(models.LogWriterTypeConsole, "", "15:04:05.000"))
		globalLogger.Warn().Msg("Using fallback logger - Init() should be called during startup")
	}
	return globalLogger
}

// Init stores logger as the global singleton.
func Init(logger arbor.ILogger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = logger
}

// Setup configures the global logger from cfg and returns it. Console and
// file writers are added according to cfg.Output (console also when no file
// output is selected); a memory writer is always added. Mirrors the
// teacher's SetupLogger.
func Setup(cfg *config.LoggingConfig, logFile string) arbor.ILogger {
	logger := arbor.NewLogger()

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = "15:04:05.000"
	}

	hasFile, hasConsole := false, false
	for _, out := range cfg.Output {
		switch out {
		case "file":
			hasFile = true
		case "stdout", "console":
			hasConsole = true
		}
	}

	if hasFile && logFile != "" {
		logger = logger.WithFileWriter(writerConfig(models.LogWriterTypeFile, logFile, timeFormat))
	}
	if hasConsole || (!hasFile) {
		logger = logger.WithConsoleWriter(writerConfig(models.LogWriterTypeConsole, "", timeFormat))
	}

	// Always keep a memory writer so a supervising process can retrieve
	// recent diagnostics without tailing a file.
	logger = logger.WithMemoryWriter(writerConfig(models.LogWriterTypeMemory, "", timeFormat))
	logger = logger.WithLevelFromString(cfg.Level)

	Init(logger)
	return logger
}

func writerConfig(t models.LogWriterType, filename, timeFormat string) models.WriterConfiguration {
	return models.WriterConfiguration{
		Type:             t,
		FileName:         filename,
		TimeFormat:       timeFormat,
		DisableTimestamp: false,
		MaxSize:          100 * 1024 * 1024,
		MaxBackups:       3,
	}
}

// Stop flushes any buffered log writers before shutdown. Safe to call
// multiple times (arbor's Stop is idempotent).
func Stop() {
	arborcommon.Stop()
}
