package asset

import (
	"context"

	"tidal-client/did"
	"tidal-client/document"
	"tidal-client/types"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// PublishRequest carries everything needed to publish a new asset.
type PublishRequest struct {
	// Metadata are the attributes of the default metadata service.
	Metadata map[string]interface{}
	// Files declares the content behind the asset. URLs are encrypted by
	// the provider and never stored in cleartext.
	Files []types.FileMeta
	// Services are extra descriptors beyond the defaulted metadata one.
	Services []types.ServiceDescriptor
	// Publisher signs the record and owns the index entry.
	Publisher Identity
	// TokenAddress reuses an existing token contract when set; otherwise a
	// new token is created with Economics.
	TokenAddress string
	Economics    *types.TokenEconomics
}

// default economics when the caller creates a token without any
var defaultEconomics = types.TokenEconomics{
	Cap:    math.NewIntWithDecimal(1, 24),
	Name:   "Asset Access Token",
	Symbol: "AAT",
}

// Publish runs the publish workflow in the background and reports progress
// as an ordered sequence of step events followed by one terminal result.
// Steps arrive strictly in the order of types.PublishSteps, each exactly
// once; a failed run stops after the step that failed. Both channels are
// buffered, so an abandoned invocation never blocks mid-workflow.
func (s *AssetSvc) Publish(ctx context.Context, req PublishRequest) (<-chan types.PublishEvent, <-chan types.PublishResult) {
	events := make(chan types.PublishEvent, len(types.PublishSteps))
	result := make(chan types.PublishResult, 1)

	go func() {
		defer close(events)
		defer close(result)

		record, err := s.publish(ctx, req, events)
		observe("publish", err)
		if err != nil {
			log.Errorf("publish failed: %v", err)
			result <- types.PublishResult{Err: err}
			return
		}
		result <- types.PublishResult{Record: record}
	}()

	return events, result
}

func (s *AssetSvc) publish(ctx context.Context, req PublishRequest, events chan<- types.PublishEvent) (*types.AssetRecord, error) {
	if req.TokenAddress != "" && !common.IsHexAddress(req.TokenAddress) {
		return nil, types.Wrapf(types.ErrInvalidAddress, "%s", req.TokenAddress)
	}

	// (a) token creation, skipped when the caller brings an address
	events <- types.PublishEvent{Step: types.StepCreatingToken}
	tokenAddress := req.TokenAddress
	if tokenAddress == "" {
		economics := defaultEconomics
		if req.Economics != nil {
			economics = *req.Economics
		}
		addr, err := s.ledger.CreateToken(ctx, s.indexLocation, req.Publisher.Address, economics)
		if err != nil {
			return nil, types.Wrap(types.ErrTokenCreateFailed, err)
		}
		if !common.IsHexAddress(addr) {
			return nil, types.Wrapf(types.ErrTokenCreateFailed, "ledger returned %q", addr)
		}
		tokenAddress = addr
	}
	events <- types.PublishEvent{Step: types.StepTokenCreated, TokenAddress: tokenAddress}

	// (b) identifier
	didStr, err := did.Derive(tokenAddress)
	if err != nil {
		return nil, err
	}
	events <- types.PublishEvent{Step: types.StepIdentifierDerived, Did: didStr}

	// (c) file encryption
	metadata := make(map[string]interface{}, len(req.Metadata)+2)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	if len(req.Files) > 0 {
		blob, err := s.provider.Encrypt(ctx, didStr, req.Files, req.Publisher.Address)
		if err != nil {
			return nil, types.Wrap(types.ErrEncryptFailed, err)
		}
		metadata["encryptedFiles"] = blob
		metadata["files"] = stripFileURLs(req.Files)
	}
	events <- types.PublishEvent{Step: types.StepFilesEncrypted}

	// (d) document assembly
	record := document.NewRecord(didStr, tokenAddress, metadata, req.Services)
	events <- types.PublishEvent{Step: types.StepDocumentBuilt}

	// (e) proof
	if err := document.AttachProof(ctx, record, req.Publisher.Address, req.Publisher.Credential, s.signer); err != nil {
		return nil, err
	}
	events <- types.PublishEvent{Step: types.StepProofAttached}

	// (f) index publish. On failure the token contract stays created: the
	// workflow attempts no compensation.
	events <- types.PublishEvent{Step: types.StepStoringDocument}
	if err := s.index.Publish(ctx, didStr, record, req.Publisher.Address); err != nil {
		return nil, types.Wrap(types.ErrPublishFailed, err)
	}
	events <- types.PublishEvent{Step: types.StepDocumentStored}

	log.Infof("published %s (token %s)", didStr, tokenAddress)
	return record, nil
}

// stripFileURLs keeps the file listing in the public record without the
// cleartext locations.
func stripFileURLs(files []types.FileMeta) []types.FileMeta {
	stripped := make([]types.FileMeta, len(files))
	for i, f := range files {
		f.URL = ""
		stripped[i] = f
	}
	return stripped
}
