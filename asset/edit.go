package asset

import (
	"context"

	"tidal-client/document"
	"tidal-client/types"
	"tidal-client/utils"
)

// UpdateMetadata edits the metadata service attributes of a published
// record in place and re-publishes it under the same DID. The encrypted
// file blob and the stripped file listing survive the edit; the service
// index layout never changes.
func (s *AssetSvc) UpdateMetadata(ctx context.Context, didStr string, attrs map[string]interface{}, publisher Identity) (*types.AssetRecord, error) {
	record, err := s.Resolve(ctx, didStr)
	if err != nil {
		return nil, err
	}
	meta := record.ServiceByType(types.ServiceMetadata)
	if meta == nil {
		return nil, types.Wrapf(types.ErrServiceNotFound, "no metadata service on %s", didStr)
	}

	updated := make(map[string]interface{}, len(attrs)+2)
	for k, v := range attrs {
		updated[k] = v
	}
	for _, keep := range []string{"encryptedFiles", "files"} {
		if v, ok := meta.Attributes[keep]; ok {
			updated[keep] = v
		}
	}
	meta.Attributes = updated

	return s.republish(ctx, didStr, record, publisher)
}

// UpdateComputePrivacy replaces the privacy terms of a compute service and
// re-publishes the record under the same DID.
func (s *AssetSvc) UpdateComputePrivacy(ctx context.Context, didStr string, serviceIndex int, privacy types.ComputePrivacy, publisher Identity) (*types.AssetRecord, error) {
	record, err := s.Resolve(ctx, didStr)
	if err != nil {
		return nil, err
	}
	svc := record.ServiceByIndex(serviceIndex)
	if svc == nil || svc.Type != types.ServiceCompute {
		return nil, types.Wrapf(types.ErrServiceNotFound, "no compute service at index %d of %s", serviceIndex, didStr)
	}

	// store the terms in the attribute map as plain decoded JSON, matching
	// the shape of a resolved record
	b, err := utils.Marshal(&privacy)
	if err != nil {
		return nil, err
	}
	var terms map[string]interface{}
	if err := utils.Unmarshal(b, &terms); err != nil {
		return nil, err
	}
	if svc.Attributes == nil {
		svc.Attributes = make(map[string]interface{})
	}
	svc.Attributes["privacy"] = terms

	return s.republish(ctx, didStr, record, publisher)
}

func (s *AssetSvc) republish(ctx context.Context, didStr string, record *types.AssetRecord, publisher Identity) (*types.AssetRecord, error) {
	if err := document.AttachProof(ctx, record, publisher.Address, publisher.Credential, s.signer); err != nil {
		return nil, err
	}
	if err := s.index.Update(ctx, didStr, record, publisher.Address); err != nil {
		return nil, types.Wrap(types.ErrPublishFailed, err)
	}
	log.Infof("updated %s", didStr)
	return record, nil
}
