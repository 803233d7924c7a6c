package logger

import (
	"os"

	"go-auth-api/config"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init configures the process-wide logger. JSON output in production so
// log collectors can parse fields, human-readable text elsewhere. The
// production switch is the same config value that gates Secure cookies
// and error detail, so the three never disagree.
func Init() {
	Log = logrus.New()
	Log.SetOutput(os.Stdout)

	if config.AppConfig.IsProduction() {
		Log.SetFormatter(&logrus.JSONFormatter{})
		Log.SetLevel(logrus.InfoLevel)
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		Log.SetLevel(logrus.DebugLevel)
	}

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		Log.SetLevel(level)
	}
}
