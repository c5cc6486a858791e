package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Setup configures the standard logger and returns an entry tagged with a
// fresh run id. Verbose runs log at debug level, others only warnings.
func Setup(w io.Writer, verbose bool) *log.Entry {
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: !verbose,
	})

	return log.WithField("run", uuid.New().String())
}

// OpenFile sends log output to path instead of stderr. The returned function
// closes the file.
func OpenFile(path string) (func(), error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(file)
	return func() { file.Close() }, nil
}
