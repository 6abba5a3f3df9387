package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"fitclub/internal/lib/sl"
)

func TestErr_ReturnsErrorAttr(t *testing.T) {
	attr := sl.Err(errors.New("disk full"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("disk full"), attr.Value)
}

func TestErr_NilErrorPanics(t *testing.T) {
	assert.Panics(t, func() {
		_ = sl.Err(nil)
	})
}
