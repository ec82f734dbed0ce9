package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger, configured once from main.
var Log = logrus.New()

func Init(level string) {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
}
