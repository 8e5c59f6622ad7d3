package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	appLogger *logrus.Logger
	once      sync.Once
)

// Init khởi tạo app logger theo LogConfig: level/format/output, filter hook, async file hook.
// Idempotent: chỉ lần gọi đầu tiên có tác dụng; các lần gọi sau trả về logger đã tạo, không đổi cấu hình.
func Init(cfg *LogConfig) *logrus.Logger {
	once.Do(func() {
		appLogger = logrus.New()

		level, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			level = logrus.InfoLevel
		}
		appLogger.SetLevel(level)

		if cfg.Format == "json" {
			appLogger.SetFormatter(&logrus.JSONFormatter{})
		} else {
			appLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}

		var writers []io.Writer
		if cfg.Output == "stdout" || cfg.Output == "both" || cfg.Output == "" {
			writers = append(writers, os.Stdout)
		}
		if cfg.Output == "file" || cfg.Output == "both" {
			if cfg.LogPath != "" {
				if err := os.MkdirAll(cfg.LogPath, 0o755); err == nil {
					if f, err := os.OpenFile(filepath.Join(cfg.LogPath, cfg.AppFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
						writers = append(writers, f)
					}
				}
			}
		}
		if len(writers) == 0 {
			writers = append(writers, os.Stdout)
		}

		appLogger.SetOutput(io.Discard)
		appLogger.AddHook(NewAsyncHookWithWriters(writers, 1000))
		appLogger.AddHook(NewFilterHook(cfg))
	})

	return appLogger
}

// GetAppLogger trả về logger đã khởi tạo; nếu Init chưa được gọi, khởi tạo với cấu hình mặc định.
func GetAppLogger() *logrus.Logger {
	if appLogger == nil {
		return Init(DefaultConfig())
	}
	return appLogger
}
