package asset

import (
	"context"
	"fmt"
	"path/filepath"

	"tidal-client/did"
	"tidal-client/types"
	"tidal-client/utils"
)

// ConsumeRequest asks for retrieval of already paid content. ServiceIndex
// defaults to the record's access service when nil.
type ConsumeRequest struct {
	Did          string
	ServiceIndex *int
	TxHash       string
	Consumer     string
	Destination  string
}

// DirectConsumeRequest bypasses record resolution: the caller already holds
// the retrieval endpoint out-of-band.
type DirectConsumeRequest struct {
	TokenAddress string
	Endpoint     string
	TxHash       string
	Consumer     string
	Destination  string
}

// Consume re-resolves the record, locates the access service, and delegates
// retrieval to the provider. A service without a retrieval endpoint is the
// one hard precondition of the whole orchestration: it fails before any
// provider call. Returns the destination directory the content landed in.
func (s *AssetSvc) Consume(ctx context.Context, req ConsumeRequest) (dest string, err error) {
	defer func() { observe("consume", err) }()

	record, err := s.Resolve(ctx, req.Did)
	if err != nil {
		return "", err
	}

	var svc *types.ServiceDescriptor
	if req.ServiceIndex != nil {
		svc = record.ServiceByIndex(*req.ServiceIndex)
	} else {
		svc = record.ServiceByType(types.ServiceAccess)
	}
	if svc == nil {
		return "", types.Wrapf(types.ErrServiceNotFound, "no access service on %s", req.Did)
	}
	if svc.ServiceEndpoint == "" {
		return "", types.Wrapf(types.ErrMissingEndpoint, "service %d of %s", svc.Index, req.Did)
	}

	id, err := did.Parse(req.Did)
	if err != nil {
		return "", err
	}
	dest = filepath.Join(req.Destination, fmt.Sprintf("datafile.%s.%d", id, svc.Index))

	err = s.provider.Download(ctx, &types.DownloadRequest{
		Did:          req.Did,
		TxHash:       req.TxHash,
		TokenAddress: record.TokenAddress,
		ServiceType:  svc.Type,
		ServiceIndex: svc.Index,
		Endpoint:     svc.ServiceEndpoint,
		Destination:  dest,
		Consumer:     req.Consumer,
		Files:        recordFiles(record),
	})
	if err != nil {
		return "", err
	}
	return dest, nil
}

// ConsumeDirect builds the retrieval call from caller supplied parts.
// Provider transport failures propagate unchanged.
func (s *AssetSvc) ConsumeDirect(ctx context.Context, req DirectConsumeRequest) (err error) {
	defer func() { observe("consume", err) }()

	return s.provider.Download(ctx, &types.DownloadRequest{
		TxHash:       req.TxHash,
		TokenAddress: req.TokenAddress,
		Endpoint:     req.Endpoint,
		Destination:  req.Destination,
		Consumer:     req.Consumer,
	})
}

// recordFiles reads the stripped file listing out of the metadata service.
func recordFiles(record *types.AssetRecord) []types.FileMeta {
	meta := record.ServiceByType(types.ServiceMetadata)
	if meta == nil {
		return nil
	}
	raw, ok := meta.Attributes["files"]
	if !ok {
		return nil
	}
	if files, ok := raw.([]types.FileMeta); ok {
		return files
	}
	// resolved records carry the listing as decoded JSON
	b, err := utils.Marshal(raw)
	if err != nil {
		return nil
	}
	var files []types.FileMeta
	if err := utils.Unmarshal(b, &files); err != nil {
		return nil
	}
	return files
}
