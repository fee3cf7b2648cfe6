package usecase

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
)

func TestWriteNeverSent(t *testing.T) {
	dialRefused := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}

	assert.True(t, writeNeverSent(fmt.Errorf("apply: %w", resilience.ErrCircuitOpen)))
	assert.True(t, writeNeverSent(fmt.Errorf("apply: %w", dialRefused)))

	assert.False(t, writeNeverSent(context.DeadlineExceeded))
	assert.False(t, writeNeverSent(fmt.Errorf("apply: %w", syscall.ECONNRESET)))
	assert.False(t, writeNeverSent(errors.New("pq: canceling statement due to statement timeout")))
}
