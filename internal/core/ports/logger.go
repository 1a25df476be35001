package ports

// Logger defines the interface for logging.
//
// Console output starts at info level. Once a log file is attached every
// message, including debug output, is also written to it.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(err error)

	// SetVerbose lowers the console level to debug.
	SetVerbose(verbose bool)
	// Attach opens a timestamped log file named <prefix>-YYYY-MM-DD-HHMMSS.log in dir
	// and returns its path.
	Attach(dir, prefix string) (string, error)
	// Close flushes and closes the attached log file, if any.
	Close() error
}
