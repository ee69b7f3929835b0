// Package logging provides the process-wide structured logger, grounded
// on the teacher's pkg/logger: a single logrus.Logger configured once
// from environment variables at startup.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger from LOG_LEVEL ("info" default) and
// LOG_FORMAT ("text" default, "json" for production log collection).
func New() *logrus.Logger {
	log := logrus.New()

	levelStr, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		levelStr = "info"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	log.SetOutput(os.Stdout)
	return log
}
