package asset

import (
	"context"
	"testing"

	"tidal-client/document"
	"tidal-client/identity"
	"tidal-client/types"

	"github.com/stretchr/testify/require"
)

func TestUpdateMetadataPreservesLayout(t *testing.T) {
	x := newFakeIndex()
	svc := NewAssetSvc(&fakeLedger{}, &fakeProvider{}, x, identity.NewKeySigner(), WithStrictProof())
	publisher := newIdentity(t)

	didStr := mustDid(t)
	record := &types.AssetRecord{
		ID:           didStr,
		TokenAddress: testToken,
		Services: []types.ServiceDescriptor{
			{Type: types.ServiceMetadata, Index: 0, Attributes: map[string]interface{}{
				"name":           "weather-data",
				"encryptedFiles": "0xencrypted",
				"files":          []types.FileMeta{{Index: 0}},
			}},
			{Type: types.ServiceAccess, Index: 1, ServiceEndpoint: "https://provider.example/consume"},
		},
	}
	require.NoError(t, document.AttachProof(context.Background(), record, publisher.Address, publisher.Credential, identity.NewKeySigner()))
	require.NoError(t, x.Publish(context.Background(), didStr, record, publisher.Address))

	updated, err := svc.UpdateMetadata(context.Background(), didStr,
		map[string]interface{}{"name": "weather-data-v2", "license": "CC0"}, publisher)
	require.NoError(t, err)
	require.Equal(t, didStr, updated.ID, "edits keep the identifier")
	require.Equal(t, 1, x.updateCalls)

	meta := updated.ServiceByType(types.ServiceMetadata)
	require.Equal(t, "weather-data-v2", meta.Attributes["name"])
	require.Equal(t, "CC0", meta.Attributes["license"])
	// the encrypted blob and the stripped listing survive the edit
	require.Equal(t, "0xencrypted", meta.Attributes["encryptedFiles"])
	require.NotNil(t, meta.Attributes["files"])
	// index layout unchanged
	require.Equal(t, 0, meta.Index)
	require.Equal(t, 1, updated.ServiceByType(types.ServiceAccess).Index)

	// the stored copy carries a fresh valid proof
	stored, err := svc.Resolve(context.Background(), didStr)
	require.NoError(t, err)
	require.NoError(t, document.VerifyProof(stored))
}

func TestUpdateComputePrivacy(t *testing.T) {
	x := newFakeIndex()
	svc := NewAssetSvc(&fakeLedger{}, &fakeProvider{}, x, identity.NewKeySigner())
	publisher := newIdentity(t)

	didStr := mustDid(t)
	record := &types.AssetRecord{
		ID:           didStr,
		TokenAddress: testToken,
		Services: []types.ServiceDescriptor{
			{Type: types.ServiceMetadata, Index: 0},
			{Type: types.ServiceCompute, Index: 1},
		},
	}
	require.NoError(t, document.AttachProof(context.Background(), record, publisher.Address, publisher.Credential, identity.NewKeySigner()))
	require.NoError(t, x.Publish(context.Background(), didStr, record, publisher.Address))

	updated, err := svc.UpdateComputePrivacy(context.Background(), didStr, 1, types.ComputePrivacy{
		AllowNetworkAccess: true,
		TrustedAlgorithms:  []string{"did:tidal:algo"},
	}, publisher)
	require.NoError(t, err)

	terms, ok := updated.ServiceByIndex(1).Attributes["privacy"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, true, terms["allowNetworkAccess"])

	// only a compute service accepts privacy terms
	_, err = svc.UpdateComputePrivacy(context.Background(), didStr, 0, types.ComputePrivacy{}, publisher)
	require.ErrorIs(t, err, types.ErrServiceNotFound)
}
