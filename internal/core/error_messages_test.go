package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/keydrift/internal/compare"
	"github.com/JonMunkholm/keydrift/internal/source"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"inputs missing", compare.ErrInputsMissing, "CMP001"},
		{"no report", ErrNoReport, "CMP002"},
		{"malformed keys", fmt.Errorf("%w: top level is an array", compare.ErrMalformedKeySource), "SRC001"},
		{"malformed table", fmt.Errorf("%w: no header", compare.ErrMalformedTableSource), "SRC002"},
		{"too large wins over malformed", fmt.Errorf("%w: %w", compare.ErrMalformedTableSource, source.ErrFileTooLarge), "FILE001"},
		{"empty wins over malformed", fmt.Errorf("%w: %w", compare.ErrMalformedKeySource, source.ErrEmptyFile), "FILE005"},
		{"no file", ErrNoFile, "FILE004"},
		{"busy", ErrTooManyUploads, "UPL002"},
		{"session", fmt.Errorf("%w: abc", ErrSessionNotFound), "SES001"},
		{"track", fmt.Errorf("%w: %q", compare.ErrUnknownTrack, "x"), "ACK001"},
		{"cancelled", context.Canceled, "UPL004"},
		{"deadline", fmt.Errorf("parse: %w", context.DeadlineExceeded), "UPL005"},
		{"pattern body too large", errors.New("http: request body too large"), "FILE001"},
		{"pattern case insensitive", errors.New("Rate Limit exceeded"), "RATE001"},
		{"unknown error returns default", errors.New("some random internal error"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, MapError(tt.err).Code)
		})
	}
}

func TestFormatUserError(t *testing.T) {
	assert.Empty(t, FormatUserError(nil))
	assert.Equal(t,
		"Both files are needed before comparing (Code: CMP001). Upload the key file and the translation table, then compare again",
		FormatUserError(compare.ErrInputsMissing))
}

func TestIsUserFacing(t *testing.T) {
	assert.False(t, IsUserFacing(nil))
	assert.True(t, IsUserFacing(ErrTooManyUploads))
	assert.False(t, IsUserFacing(errors.New("boom")))
}

func TestUserError(t *testing.T) {
	assert.Nil(t, NewUserError(nil))

	ue := NewUserError(compare.ErrInputsMissing)
	assert.Equal(t, "Both files are needed before comparing", ue.Error())
	assert.Equal(t, "CMP001", ue.User.Code)
	assert.ErrorIs(t, ue, compare.ErrInputsMissing)
}
