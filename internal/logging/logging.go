package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lowaak/stamena-trainer/internal/config"
)

// Flags used for every logger the app creates
const Flags = log.LstdFlags | log.Lmicroseconds

// New returns a logger writing to the rotating file described by cfg. With
// tee set, lines are copied to it as well (stderr for non-interactive
// commands). The returned closer releases the file.
func New(cfg config.LogConfig, tee io.Writer) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, err
	}
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	var w io.Writer = file
	if tee != nil {
		w = io.MultiWriter(file, tee)
	}
	return log.New(w, "", Flags), file, nil
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
