// Package logging routes the standard logger and gin's request log to stdout
// and, optionally, a size-rotated file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrlokans/watchlist/internal/config"
)

// Setup configures log output. With an empty cfg.File it only writes to
// stdout. The returned closer releases the log file and is never nil.
func Setup(cfg config.Log) (io.Closer, error) {
	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		gin.DefaultWriter = os.Stdout
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
	}

	fileWriter := NewRotatingWriter(cfg)
	writer := io.MultiWriter(os.Stdout, fileWriter)

	log.SetOutput(writer)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	gin.DefaultWriter = writer
	gin.DefaultErrorWriter = writer

	log.Printf("Logging to file: %s", cfg.File)
	return fileWriter, nil
}

// NewRotatingWriter returns a lumberjack writer for cfg.File.
func NewRotatingWriter(cfg config.Log) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
