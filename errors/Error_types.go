package errors

// ERR identifies the class of an error. The numeric values are part of the
// external contract (they are logged and surfaced to callers) and must not
// be renumbered.
type ERR int32

const (
	ERR_UNKNOWN          ERR = 0
	ERR_INVALID_ARGUMENT ERR = 1
	ERR_NOT_FOUND        ERR = 2
	ERR_PROCESSING       ERR = 3
	ERR_CONFIGURATION    ERR = 4
	ERR_ERROR            ERR = 5
	ERR_STORAGE_ERROR    ERR = 6
	ERR_KEY_ERROR        ERR = 7

	ERR_NEGATIVE_AMOUNT           ERR = 20
	ERR_INSUFFICIENT_BALANCE      ERR = 21
	ERR_MISSING_SIGNATURE         ERR = 22
	ERR_SIGNATURE_INVALID         ERR = 23
	ERR_CHAIN_BROKEN              ERR = 24
	ERR_CONTRACT_PARSE            ERR = 25
	ERR_ORPHAN_RESOLUTION_STALLED ERR = 26
)

var ERR_name = map[int32]string{
	0:  "ERR_UNKNOWN",
	1:  "ERR_INVALID_ARGUMENT",
	2:  "ERR_NOT_FOUND",
	3:  "ERR_PROCESSING",
	4:  "ERR_CONFIGURATION",
	5:  "ERR_ERROR",
	6:  "ERR_STORAGE_ERROR",
	7:  "ERR_KEY_ERROR",
	20: "ERR_NEGATIVE_AMOUNT",
	21: "ERR_INSUFFICIENT_BALANCE",
	22: "ERR_MISSING_SIGNATURE",
	23: "ERR_SIGNATURE_INVALID",
	24: "ERR_CHAIN_BROKEN",
	25: "ERR_CONTRACT_PARSE",
	26: "ERR_ORPHAN_RESOLUTION_STALLED",
}

func (e ERR) Enum() string {
	name, ok := ERR_name[int32(e)]
	if !ok {
		return "ERR_UNKNOWN"
	}

	return name
}

func (e ERR) String() string {
	return e.Enum()
}

var (
	ErrUnknown         = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrNotFound        = New(ERR_NOT_FOUND, "not found")
	ErrProcessing      = New(ERR_PROCESSING, "error processing")
	ErrConfiguration   = New(ERR_CONFIGURATION, "configuration error")
	ErrError           = New(ERR_ERROR, "generic error")
	ErrStorageError    = New(ERR_STORAGE_ERROR, "storage error")
	ErrKeyError        = New(ERR_KEY_ERROR, "key error")

	ErrNegativeAmount          = New(ERR_NEGATIVE_AMOUNT, "negative amount")
	ErrInsufficientBalance     = New(ERR_INSUFFICIENT_BALANCE, "insufficient balance")
	ErrMissingSignature        = New(ERR_MISSING_SIGNATURE, "missing signature")
	ErrSignatureInvalid        = New(ERR_SIGNATURE_INVALID, "signature invalid")
	ErrChainBroken             = New(ERR_CHAIN_BROKEN, "chain broken")
	ErrContractParse           = New(ERR_CONTRACT_PARSE, "contract parse error")
	ErrOrphanResolutionStalled = New(ERR_ORPHAN_RESOLUTION_STALLED, "orphan resolution stalled")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}

func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}

func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}

func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}

func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}

func NewError(message string, params ...interface{}) error {
	return New(ERR_ERROR, message, params...)
}

func NewStorageError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_ERROR, message, params...)
}

func NewKeyError(message string, params ...interface{}) error {
	return New(ERR_KEY_ERROR, message, params...)
}

func NewNegativeAmountError(message string, params ...interface{}) error {
	return New(ERR_NEGATIVE_AMOUNT, message, params...)
}

func NewInsufficientBalanceError(message string, params ...interface{}) error {
	return New(ERR_INSUFFICIENT_BALANCE, message, params...)
}

func NewMissingSignatureError(message string, params ...interface{}) error {
	return New(ERR_MISSING_SIGNATURE, message, params...)
}

func NewSignatureInvalidError(message string, params ...interface{}) error {
	return New(ERR_SIGNATURE_INVALID, message, params...)
}

func NewChainBrokenError(message string, params ...interface{}) error {
	return New(ERR_CHAIN_BROKEN, message, params...)
}

func NewContractParseError(message string, params ...interface{}) error {
	return New(ERR_CONTRACT_PARSE, message, params...)
}

func NewOrphanResolutionStalledError(message string, params ...interface{}) error {
	return New(ERR_ORPHAN_RESOLUTION_STALLED, message, params...)
}
