package source

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/keydrift/internal/compare"
)

// ErrFileTooLarge is returned when an upload exceeds the configured size cap.
var ErrFileTooLarge = errors.New("file too large")

// ErrEmptyFile is returned for a file with no content at all.
var ErrEmptyFile = errors.New("empty file")

func keyError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", compare.ErrMalformedKeySource, fmt.Sprintf(format, args...))
}

func keyWrap(err error) error {
	return fmt.Errorf("%w: %w", compare.ErrMalformedKeySource, err)
}

func tableError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", compare.ErrMalformedTableSource, fmt.Sprintf(format, args...))
}

func tableWrap(err error) error {
	return fmt.Errorf("%w: %w", compare.ErrMalformedTableSource, err)
}
