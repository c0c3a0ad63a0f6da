package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, "https://octra.network", GetString(LedgerEndpointKey))
	assert.Equal(t, LedgerDialectOctra, GetString(LedgerDialectKey))
	assert.Equal(t, 10000, GetInt(LedgerRequestTimeoutKey))
	assert.Equal(t, 30, GetInt(StatusCacheTTLKey))
	assert.Equal(t, 60, GetInt(HistoryCacheTTLKey))
	assert.Equal(t, 5, GetInt(BatchSizeKey))
	assert.False(t, GetBool(EnableProfilerKey))
}

func TestGetLedger(t *testing.T) {
	node, err := GetLedger()
	require.NoError(t, err)
	assert.NotNil(t, node)

	Set(LedgerDialectKey, LedgerDialectRest)
	defer Set(LedgerDialectKey, LedgerDialectOctra)

	node, err = GetLedger()
	require.NoError(t, err)
	assert.NotNil(t, node)
}
