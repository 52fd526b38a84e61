package document

import (
	"testing"

	"tidal-client/types"

	"github.com/stretchr/testify/require"
)

func TestBuildServicesDefaultMetadataOnly(t *testing.T) {
	services := BuildServices(map[string]interface{}{"name": "dataset"}, nil)
	require.Len(t, services, 1)
	require.Equal(t, types.ServiceMetadata, services[0].Type)
	require.Equal(t, 0, services[0].Index)
	require.Equal(t, "dataset", services[0].Attributes["name"])
}

func TestBuildServicesDedupLastWinsFirstPosition(t *testing.T) {
	defaultAttrs := map[string]interface{}{"name": "default"}
	caller := []types.ServiceDescriptor{
		{Type: types.ServiceAccess, ServiceEndpoint: "https://provider.example/consume"},
		{Type: types.ServiceMetadata, Attributes: map[string]interface{}{"name": "override"}},
	}

	services := BuildServices(defaultAttrs, caller)
	require.Len(t, services, 2)

	// the metadata survivor keeps position 0 but carries the last payload
	require.Equal(t, types.ServiceMetadata, services[0].Type)
	require.Equal(t, 0, services[0].Index)
	require.Equal(t, "override", services[0].Attributes["name"])

	require.Equal(t, types.ServiceAccess, services[1].Type)
	require.Equal(t, 1, services[1].Index)
}

func TestBuildServicesDenseIndices(t *testing.T) {
	caller := []types.ServiceDescriptor{
		{Type: types.ServiceAccess, Index: 42},
		{Type: types.ServiceCompute, Index: 7},
		{Type: types.ServiceAccess, ServiceEndpoint: "https://second.example"},
	}

	services := BuildServices(nil, caller)
	require.Len(t, services, 3)
	for i, svc := range services {
		require.Equal(t, i, svc.Index)
	}
	require.Equal(t, types.ServiceMetadata, services[0].Type)
	require.Equal(t, types.ServiceAccess, services[1].Type)
	// last-declared access entry survived
	require.Equal(t, "https://second.example", services[1].ServiceEndpoint)
	require.Equal(t, types.ServiceCompute, services[2].Type)
}

func TestNewRecord(t *testing.T) {
	record := NewRecord("did:tidal:aa", "0x2E335f67F2A4492E50871Bc42bc83AF34Ca1356d",
		map[string]interface{}{"name": "dataset"}, nil)
	require.Equal(t, "did:tidal:aa", record.ID)
	require.NotEmpty(t, record.Created)
	require.NotNil(t, record.ServiceByType(types.ServiceMetadata))
	require.Nil(t, record.Proof)
}
