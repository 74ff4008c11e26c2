// Package file provides the local-file implementation of the row source:
// a buffered, one-shot line reader that splits each line on the configured
// delimiter.
package file

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	port "github.com/tigerroll/tanemaki/pkg/seeder/core/port"
	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/exception"
	logger "github.com/tigerroll/tanemaki/pkg/seeder/support/util/logger"
)

const moduleName = "source"

// Source reads a delimited text file row by row. It is finite and one-shot:
// after EOF it can only be restarted by reopening.
type Source struct {
	path      string
	delimiter string

	handle  *os.File
	scanner *bufio.Scanner
}

// Verify that Source implements the port.RowSource interface.
var _ port.RowSource = (*Source)(nil)

// NewSource creates a Source for path, splitting lines on delimiter.
func NewSource(path, delimiter string) *Source {
	return &Source{path: path, delimiter: delimiter}
}

// Open opens the file. A missing or unreadable file is a configuration
// error: the run ends cleanly with nothing touched.
func (s *Source) Open(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if s.path == "" {
		return exception.NewConfigError(moduleName, "no source file configured", nil)
	}

	handle, err := os.Open(s.path)
	if err != nil {
		return exception.NewConfigError(moduleName,
			fmt.Sprintf("source file '%s' could not be opened", s.path), err)
	}
	s.handle = handle
	s.scanner = bufio.NewScanner(handle)
	logger.Debugf("Opened source file '%s'.", s.path)
	return nil
}

// ReadRow returns the fields of the next non-empty line, or io.EOF when the
// file is exhausted. Lines that are empty after trimming are skipped here so
// the caller never sees them.
func (s *Source) ReadRow(ctx context.Context) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if s.scanner == nil {
		return nil, exception.NewBatchError(moduleName, "ReadRow called before Open", nil, false)
	}

	for s.scanner.Scan() {
		line := strings.TrimRight(s.scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return strings.Split(line, s.delimiter), nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, exception.NewBatchError(moduleName,
			fmt.Sprintf("failed reading source file '%s'", s.path), err, false)
	}
	return nil, io.EOF
}

// Close releases the file handle. Safe to call when Open failed or was
// never called.
func (s *Source) Close(ctx context.Context) error {
	if s.handle == nil {
		return nil
	}
	err := s.handle.Close()
	s.handle = nil
	s.scanner = nil
	if err != nil {
		return exception.NewBatchError(moduleName,
			fmt.Sprintf("failed to close source file '%s'", s.path), err, false)
	}
	logger.Debugf("Closed source file '%s'.", s.path)
	return nil
}
