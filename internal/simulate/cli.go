package simulate

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/damianidczak/vue-render-inspector-sub002/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "render_gen_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the render event generator.
func ShowHelp() {
	os.Stdout.WriteString(`Render Event Generator
======================

A concurrent tool for exercising the render inspector service with
synthetic component render traffic.

Usage:
  go run cmd/render-gen/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -events int
        Number of render events to generate and submit (default 10000)
  -components int
        Number of distinct component instances (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated events (default: generated_renders_TIMESTAMP.json)
  -log string
        Log file for generator output (default: render_gen_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run with default settings
  go run cmd/render-gen/main.go

  # Run with custom parameters
  go run cmd/render-gen/main.go -events 50000 -workers 16 -url http://localhost:8080

  # Run with verbose output
  go run cmd/render-gen/main.go -verbose -events 10000

  # Run with a custom log file
  go run cmd/render-gen/main.go -events 50000 -log my_run.log
`)
}
