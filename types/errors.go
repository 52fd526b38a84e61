package types

import "cosmossdk.io/errors"

var (
	ModuleAsset = "asset"

	// business rule failures
	ErrInvalidAddress      = errors.Register(ModuleAsset, 20000, "invalid token contract address")
	ErrServiceNotFound     = errors.Register(ModuleAsset, 20001, "no matching service in the asset record")
	ErrQuoteUnavailable    = errors.Register(ModuleAsset, 20002, "provider returned no quote for the service")
	ErrInsufficientBalance = errors.Register(ModuleAsset, 20003, "consumer balance does not cover the order cost")

	// infrastructure failures
	ErrMissingEndpoint   = errors.Register(ModuleAsset, 20010, "service has no retrieval endpoint")
	ErrSigningFailed     = errors.Register(ModuleAsset, 20011, "failed to sign the record checksum")
	ErrTokenCreateFailed = errors.Register(ModuleAsset, 20012, "ledger returned an invalid token address")
	ErrPublishFailed     = errors.Register(ModuleAsset, 20013, "failed to store the record in the metadata index")
	ErrResolveFailed     = errors.Register(ModuleAsset, 20014, "failed to resolve the asset record")
	ErrTxProcessFailed   = errors.Register(ModuleAsset, 20015, "failed to process the ledger tx")
	ErrTransportFailed   = errors.Register(ModuleAsset, 20016, "provider transport failure")
	ErrEncryptFailed     = errors.Register(ModuleAsset, 20017, "failed to encrypt the file references")
	ErrProofMismatch     = errors.Register(ModuleAsset, 20018, "record proof does not verify against its creator")

	ModuleConfig = "config"

	ErrInvalidConfig      = errors.Register(ModuleConfig, 21000, "invalid config")
	ErrEncodeConfigFailed = errors.Register(ModuleConfig, 21001, "failed to encode the config")
	ErrDecodeConfigFailed = errors.Register(ModuleConfig, 21002, "failed to decode the config")
)

func Wrap(err0 error, err1 error) error {
	return errors.Wrapf(err0, ", due to %v", err1)
}

func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

var businessErrs = []*errors.Error{
	ErrInvalidAddress,
	ErrServiceNotFound,
	ErrQuoteUnavailable,
	ErrInsufficientBalance,
}

// IsBusinessErr reports whether err is an expected business rule failure as
// opposed to an infrastructure failure.
func IsBusinessErr(err error) bool {
	for _, e := range businessErrs {
		if e.Is(err) {
			return true
		}
	}
	return false
}
