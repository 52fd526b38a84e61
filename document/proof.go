package document

import (
	"context"
	"strings"
	"time"

	"tidal-client/identity"
	"tidal-client/types"
	"tidal-client/utils"

	"github.com/ethereum/go-ethereum/common/hexutil"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("document")

// Checksum computes the canonical checksum of a record, excluding any
// attached proof.
func Checksum(record *types.AssetRecord) (string, error) {
	clone := *record
	clone.Proof = nil
	b, err := utils.Marshal(&clone)
	if err != nil {
		return "", err
	}
	b, err = utils.Canonicalize(b)
	if err != nil {
		return "", err
	}
	c, err := utils.CalculateChecksum(b)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// AttachProof signs the record checksum with the publisher credential and
// attaches the resulting proof. A record without a valid proof must never be
// published, so signing failures propagate.
func AttachProof(ctx context.Context, record *types.AssetRecord, creator string, credential string, signer identity.Signer) error {
	checksum, err := Checksum(record)
	if err != nil {
		return err
	}
	sig, err := signer.Sign(ctx, []byte(checksum), credential)
	if err != nil {
		return types.Wrap(types.ErrSigningFailed, err)
	}
	record.Proof = &types.ProofRecord{
		Created:        time.Now().UTC().Format(time.RFC3339),
		Checksum:       checksum,
		Creator:        creator,
		SignatureValue: hexutil.Encode(sig),
	}
	return nil
}

// VerifyProof recomputes the record checksum and checks that the proof
// signature recovers the declared creator.
func VerifyProof(record *types.AssetRecord) error {
	if record.Proof == nil {
		return types.Wrapf(types.ErrProofMismatch, "record %s carries no proof", record.ID)
	}
	checksum, err := Checksum(record)
	if err != nil {
		return err
	}
	if checksum != record.Proof.Checksum {
		return types.Wrapf(types.ErrProofMismatch, "checksum drift on %s: stored %s, computed %s",
			record.ID, record.Proof.Checksum, checksum)
	}
	sig, err := hexutil.Decode(record.Proof.SignatureValue)
	if err != nil {
		return types.Wrap(types.ErrProofMismatch, err)
	}
	signer, err := identity.Recover([]byte(checksum), sig)
	if err != nil {
		return err
	}
	if !strings.EqualFold(signer, record.Proof.Creator) {
		return types.Wrapf(types.ErrProofMismatch, "record %s signed by %s, creator is %s",
			record.ID, signer, record.Proof.Creator)
	}
	return nil
}

// CheckProof applies the configured strictness: in strict mode a bad proof
// fails resolution, otherwise it is logged and the record is used anyway.
func CheckProof(record *types.AssetRecord, strict bool) error {
	err := VerifyProof(record)
	if err == nil {
		return nil
	}
	if strict {
		return err
	}
	log.Warnf("proof verification failed on %s: %v", record.ID, err)
	return nil
}
