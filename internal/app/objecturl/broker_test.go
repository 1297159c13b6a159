package objecturl

import (
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/vidshelf/internal/domain/video"
)

const testBase = "http://localhost:8080"

func testBlob(name string) video.Blob {
	return video.Blob{Name: name, MIMEType: "video/mp4", Data: []byte(name)}
}

func TestBroker_MintResolveRevoke(t *testing.T) {
	b := NewBroker(testBase + "/")

	lease, err := b.Mint(testBlob("clip"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(lease.URL(), testBase+MediaPath))
	assert.Equal(t, testBase+MediaPath+lease.Handle(), lease.URL())

	blob, ok := b.Resolve(lease.Handle())
	require.True(t, ok)
	assert.Equal(t, "clip", blob.Name)

	require.NoError(t, b.Revoke(lease.URL()))
	_, ok = b.Resolve(lease.Handle())
	assert.False(t, ok)

	err = b.Revoke(lease.URL())
	assert.ErrorIs(t, err, ErrNotLive)

	stats := b.Stats()
	assert.Equal(t, Stats{Minted: 1, Revoked: 1, Live: 0, DoubleRevokes: 1}, stats)
}

func TestBroker_RevokeByHandle(t *testing.T) {
	b := NewBroker(testBase)
	lease, err := b.Mint(testBlob("clip"))
	require.NoError(t, err)

	require.NoError(t, b.Revoke(lease.Handle()))
	assert.ErrorIs(t, b.Revoke("not-a-handle"), ErrNotLive)
}

func TestLease_ReleaseExactlyOnce(t *testing.T) {
	b := NewBroker(testBase)
	lease, err := b.Mint(testBlob("clip"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, lease.Release())
		}()
	}
	wg.Wait()

	stats := b.Stats()
	assert.Equal(t, 1, stats.Revoked)
	assert.Equal(t, 0, stats.DoubleRevokes)
	assert.Equal(t, 0, stats.Live)
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker(testBase)
	l1, err := b.Mint(testBlob("a"))
	require.NoError(t, err)
	_, err = b.Mint(testBlob("b"))
	require.NoError(t, err)

	require.NoError(t, b.Close())
	assert.Equal(t, 0, b.Stats().Live)
	assert.Equal(t, 2, b.Stats().Revoked)

	// Lease released after teardown is not a double revoke
	assert.NoError(t, l1.Release())
	assert.Equal(t, 0, b.Stats().DoubleRevokes)

	_, err = b.Mint(testBlob("c"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, b.Close())
}

// Release-before-mint keeps at most one URL live no matter the sequence.
func TestBroker_ReleaseBeforeMintInvariant(t *testing.T) {
	b := NewBroker(testBase)
	rng := rand.New(rand.NewPCG(1, 2))

	var current *Lease
	for i := range 500 {
		switch rng.IntN(3) {
		case 0, 1: // select
			if current != nil {
				require.NoError(t, current.Release())
			}
			l, err := b.Mint(testBlob("v"))
			require.NoError(t, err)
			current = l
		case 2: // clear
			if current != nil {
				require.NoError(t, current.Release())
				current = nil
			}
		}

		s := b.Stats()
		require.LessOrEqual(t, s.Live, 1, "step %d", i)
		require.Equal(t, s.Minted, s.Revoked+s.Live, "step %d", i)
		require.Zero(t, s.DoubleRevokes)
	}

	if current != nil {
		require.NoError(t, current.Release())
	}
	assert.Equal(t, 0, b.Stats().Live)
}
