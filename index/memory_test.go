package index

import (
	"context"
	"testing"

	"tidal-client/types"

	"github.com/stretchr/testify/require"
)

func TestMemoryIndexLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryIndex()

	require.NoError(t, m.Publish(ctx, testDid, testRecord(), "0xOwner"))

	record, err := m.Resolve(ctx, testDid)
	require.NoError(t, err)
	require.Equal(t, testDid, record.ID)

	updated := testRecord()
	updated.Services[0].Attributes["name"] = "weather-data-v2"
	require.NoError(t, m.Update(ctx, testDid, updated, "0xOwner"))

	record, err = m.Resolve(ctx, testDid)
	require.NoError(t, err)
	require.Equal(t, "weather-data-v2", record.ServiceByType(types.ServiceMetadata).Attributes["name"])
}

func TestMemoryIndexUpdateOwnerCheck(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryIndex()
	require.NoError(t, m.Publish(ctx, testDid, testRecord(), "0xOwner"))

	err := m.Update(ctx, testDid, testRecord(), "0xIntruder")
	require.ErrorIs(t, err, types.ErrPublishFailed)

	// untouched records and unknown dids
	record, err := m.Resolve(ctx, testDid)
	require.NoError(t, err)
	require.Equal(t, "weather-data", record.ServiceByType(types.ServiceMetadata).Attributes["name"])

	err = m.Update(ctx, "did:tidal:unknown", testRecord(), "0xOwner")
	require.ErrorIs(t, err, types.ErrResolveFailed)

	_, err = m.Resolve(ctx, "did:tidal:unknown")
	require.ErrorIs(t, err, types.ErrResolveFailed)
}
