package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncLibraryOp(t *testing.T) {
	before := testutil.ToFloat64(LibraryOperationsTotal.WithLabelValues("add", "ok"))
	IncLibraryOp("add", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(LibraryOperationsTotal.WithLabelValues("add", "ok")))

	beforeUnknown := testutil.ToFloat64(LibraryOperationsTotal.WithLabelValues("unknown", "unknown"))
	IncLibraryOp("", "")
	assert.Equal(t, beforeUnknown+1, testutil.ToFloat64(LibraryOperationsTotal.WithLabelValues("unknown", "unknown")))
}

func TestObjectURLGauges(t *testing.T) {
	live := testutil.ToFloat64(ObjectURLsLive)
	minted := testutil.ToFloat64(ObjectURLsMintedTotal)
	revoked := testutil.ToFloat64(ObjectURLsRevokedTotal)

	ObserveMint()
	ObserveMint()
	ObserveRevoke()

	assert.Equal(t, live+1, testutil.ToFloat64(ObjectURLsLive))
	assert.Equal(t, minted+2, testutil.ToFloat64(ObjectURLsMintedTotal))
	assert.Equal(t, revoked+1, testutil.ToFloat64(ObjectURLsRevokedTotal))
}
