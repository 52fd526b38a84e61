package document

import (
	"time"

	"tidal-client/types"
)

// BuildServices assembles the final service list from the default metadata
// service and any caller supplied services. Entries sharing a type are
// deduplicated: the last declared entry of a type wins, but it keeps the
// position established by the first occurrence of that type. Indices are
// assigned densely from 0 in the surviving order.
func BuildServices(metadataAttrs map[string]interface{}, extra []types.ServiceDescriptor) []types.ServiceDescriptor {
	candidates := make([]types.ServiceDescriptor, 0, len(extra)+1)
	candidates = append(candidates, types.ServiceDescriptor{
		Type:       types.ServiceMetadata,
		Attributes: metadataAttrs,
	})
	candidates = append(candidates, extra...)

	firstPos := make(map[types.ServiceType]int)
	services := make([]types.ServiceDescriptor, 0, len(candidates))
	for _, svc := range candidates {
		if pos, ok := firstPos[svc.Type]; ok {
			services[pos] = svc
		} else {
			firstPos[svc.Type] = len(services)
			services = append(services, svc)
		}
	}

	for i := range services {
		services[i].Index = i
	}
	return services
}

// NewRecord creates an unsigned asset record for the given identifier.
func NewRecord(didStr string, tokenAddress string, metadataAttrs map[string]interface{}, extra []types.ServiceDescriptor) *types.AssetRecord {
	return &types.AssetRecord{
		ID:           didStr,
		TokenAddress: tokenAddress,
		Created:      time.Now().UTC().Format(time.RFC3339),
		Services:     BuildServices(metadataAttrs, extra),
	}
}
