package broker

import (
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectOpenRestrictedOpensRealFile(t *testing.T) {
	var b Direct

	f, err := b.OpenRestricted(os.DevNull, syscall.O_RDWR|syscall.O_NONBLOCK)
	require.NoError(t, err)
	require.NotNil(t, f)

	b.CloseRestricted(f)
}

func TestDirectOpenRestrictedAlwaysSetsNonblock(t *testing.T) {
	var b Direct

	// Deliberately omit O_NONBLOCK from the caller's flags: OpenRestricted
	// must OR it in regardless, matching its own doc comment.
	f, err := b.OpenRestricted(os.DevNull, syscall.O_RDWR)
	require.NoError(t, err)
	defer b.CloseRestricted(f)

	got, err := syscall.FcntlInt(f.Fd(), syscall.F_GETFL, 0)
	require.NoError(t, err)
	require.NotZero(t, got&syscall.O_NONBLOCK, "fd must be non-blocking even when the caller didn't ask")
}

func TestDirectOpenRestrictedSurfacesError(t *testing.T) {
	var b Direct

	_, err := b.OpenRestricted("/nonexistent/path/seatinput-broker-test", syscall.O_RDONLY)
	require.Error(t, err)
}
