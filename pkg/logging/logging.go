package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once     sync.Once
	instance *logrus.Logger
)

// GetLogger returns the process-wide logger.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		instance = logrus.New()
		instance.SetOutput(os.Stdout)
		instance.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		if os.Getenv("PREPLATE_DEBUG") != "" {
			instance.SetLevel(logrus.DebugLevel)
		}
	})
	return instance
}
