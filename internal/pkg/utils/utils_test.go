package utils

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFreePort_SkipsBusyPort(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	port := busy.Addr().(*net.TCPAddr).Port

	assert.Equal(t, 0, FindFreePort("127.0.0.1", port, port))

	got := FindFreePort("127.0.0.1", port, port+20)
	assert.NotEqual(t, port, got)
	if got != 0 {
		ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", got))
		require.NoError(t, err)
		_ = ln.Close()
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "hello", Clean("  hello \n", 10))
	assert.Equal(t, "héllo", Clean("héllo wörld", 5))
	assert.Equal(t, "ab", Clean("ab", 0))
	assert.Equal(t, "", Clean("   ", 5))
}

func TestLANAddress_ReturnsIPv4(t *testing.T) {
	ip := net.ParseIP(LANAddress())
	require.NotNil(t, ip)
	assert.NotNil(t, ip.To4())
}
