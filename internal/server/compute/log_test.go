package compute

import (
	"context"
	"testing"

	"github.com/jaineet17/AWS-File-Processing-System/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestLogDispatcher_CountsStarts(t *testing.T) {
	d := NewLogDispatcher(logging.Nop())
	var _ Dispatcher = d

	assert.NoError(t, d.Start(context.Background(), "i-1"))
	assert.NoError(t, d.Start(context.Background(), "i-1"))
	assert.Equal(t, int64(2), d.Starts())
}
