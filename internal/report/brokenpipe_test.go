// internal/report/brokenpipe_test.go
package report

import (
	"errors"
	"fmt"
	"io"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsBrokenPipe(t *testing.T) {
	require.True(t, IsBrokenPipe(syscall.EPIPE))
	require.True(t, IsBrokenPipe(io.ErrClosedPipe))
	require.True(t, IsBrokenPipe(fmt.Errorf("write report: %w", syscall.EPIPE)))
}

func TestIsBrokenPipeNegative(t *testing.T) {
	require.False(t, IsBrokenPipe(nil))
	require.False(t, IsBrokenPipe(io.EOF))
	require.False(t, IsBrokenPipe(errors.New("disk full")))
}
