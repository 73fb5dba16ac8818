package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adi-os/plugin-registry/internal/infrastructure/logging"
	"github.com/adi-os/plugin-registry/internal/shared/types"
)

func TestDownloadCounterFlushesOnClose(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PublishPackage(PackagePublication{
		ID: "foo", Name: "Foo", Version: "1.0.0", Platform: "linux-x64",
		Data: []byte{1},
	}))

	c := NewDownloadCounter(s, logging.NewNop())
	for i := 0; i < 5; i++ {
		c.Record(types.KindPackage, "foo")
	}
	c.Close()

	idx, err := s.LoadIndex()
	require.NoError(t, err)
	require.Len(t, idx.Packages, 1)
	assert.Equal(t, uint64(5), idx.Packages[0].Downloads)
}

func TestDownloadCounterUnknownIDDoesNotStall(t *testing.T) {
	s := newTestStore(t)

	c := NewDownloadCounter(s, logging.NewNop())
	c.Record(types.KindPlugin, "ghost")
	done := make(chan struct{})
	go func() {
		c.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("counter did not drain")
	}
}

func TestDownloadCounterCloseIdempotent(t *testing.T) {
	s := newTestStore(t)
	c := NewDownloadCounter(s, logging.NewNop())
	c.Close()
	c.Close()
}
