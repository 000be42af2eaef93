package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	log  *logrus.Logger
	once sync.Once
)

// Fields aliases logrus.Fields so callers avoid the direct import.
type Fields = logrus.Fields

// New returns the shared process logger. The first call configures it;
// later calls return the same instance.
func New() *logrus.Logger {
	once.Do(func() {
		log = logrus.New()
		log.SetLevel(logrus.InfoLevel)
		if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
			log.SetLevel(logrus.DebugLevel)
		}

		log.SetFormatter(&formatter.Formatter{
			TimestampFormat: "02 Jan 06 - 15:04:05",
			HideKeys:        false,
			CallerFirst:     true,
			CustomCallerFormatter: func(f *runtime.Frame) string {
				parts := strings.Split(f.Function, ".")
				return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, parts[len(parts)-1])
			},
		})

		writers := []io.Writer{os.Stderr}

		// Skip file output under tests so CI does not litter log files.
		if os.Getenv("APP_ENV") != "test" && os.Getenv("LOG_DIR") != "" {
			writers = append(writers, &lumberjack.Logger{
				Filename:   fmt.Sprintf("%s/moodlens-%s.log", os.Getenv("LOG_DIR"), time.Now().Format("2006-01-02")),
				LocalTime:  true,
				Compress:   true,
				MaxSize:    100,
				MaxAge:     7,
				MaxBackups: 3,
			})
		}

		log.SetOutput(io.MultiWriter(writers...))
		log.SetReportCaller(true)
	})

	return log
}

// Component returns an entry tagged with the given component name.
func Component(name string) *logrus.Entry {
	return New().WithField("component", name)
}
