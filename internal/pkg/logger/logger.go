package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger. Production-like environments
// get JSON output; everything else gets text with full timestamps.
func Setup(level string, jsonOutput bool) {
	logrus.SetOutput(os.Stdout)
	if jsonOutput {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
