package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func init() {
	// Usable before InitLogger runs, e.g. from package tests.
	InitLogger()
}

// InitLogger sets up the stdout info logger and the stderr error logger.
// An optional level name (debug, info, warn, ...) overrides the info logger level.
func InitLogger(level ...string) {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	InfoLogger.SetLevel(logrus.InfoLevel)
	ErrorLogger.SetLevel(logrus.ErrorLevel)

	if len(level) > 0 && level[0] != "" {
		lvl, err := logrus.ParseLevel(level[0])
		if err != nil {
			ErrorLogger.Printf("Unknown log level %q, keeping info", level[0])
			return
		}
		InfoLogger.SetLevel(lvl)
	}
}
