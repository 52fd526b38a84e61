package types

// PublishStep names one stage of the publish workflow. Steps are emitted
// strictly in the order of PublishSteps, each exactly once, before the
// terminal PublishResult.
type PublishStep string

const (
	StepCreatingToken     PublishStep = "creating-token"
	StepTokenCreated      PublishStep = "token-created"
	StepIdentifierDerived PublishStep = "identifier-derived"
	StepFilesEncrypted    PublishStep = "files-encrypted"
	StepDocumentBuilt     PublishStep = "document-built"
	StepProofAttached     PublishStep = "proof-attached"
	StepStoringDocument   PublishStep = "storing-document"
	StepDocumentStored    PublishStep = "document-stored"
)

// PublishSteps is the full step sequence of a successful publish.
var PublishSteps = []PublishStep{
	StepCreatingToken,
	StepTokenCreated,
	StepIdentifierDerived,
	StepFilesEncrypted,
	StepDocumentBuilt,
	StepProofAttached,
	StepStoringDocument,
	StepDocumentStored,
}

// PublishEvent is one progress notification of the publish workflow.
type PublishEvent struct {
	Step PublishStep
	// TokenAddress is set on StepTokenCreated.
	TokenAddress string
	// Did is set on StepIdentifierDerived.
	Did string
}

// PublishResult is the terminal value of a publish invocation: the stored
// record, or the error that stopped the workflow.
type PublishResult struct {
	Record *AssetRecord
	Err    error
}
