package obs

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/multi"
	"github.com/apex/log/handlers/text"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the global apex logger.
// level is one of debug, info, warn, error (default info). When file is set,
// entries are also written as JSON to a size-rotated log file. The returned
// closer flushes that file and is always non-nil.
func Setup(level, file string) (io.Closer, error) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		if strings.TrimSpace(level) != "" {
			return nopCloser{}, fmt.Errorf("obs setup: %w", err)
		}
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.TrimSpace(file) == "" {
		log.SetHandler(text.New(os.Stderr))
		return nopCloser{}, nil
	}

	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	log.SetHandler(multi.New(text.New(os.Stderr), json.New(rotating)))
	return rotating, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
