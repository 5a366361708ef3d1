package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter ErrorCode = 100
	ErrCodeInvalidWindow    ErrorCode = 101
	ErrCodeInvalidType      ErrorCode = 102
	ErrCodeMissingParameter ErrorCode = 103
	ErrCodeInvalidTicker    ErrorCode = 104
	ErrCodeInvalidDateRange ErrorCode = 105
	ErrCodeInvalidState     ErrorCode = 106

	// Series/data errors (200-299)
	ErrCodeEmptySeries        ErrorCode = 200
	ErrCodeUnorderedSeries    ErrorCode = 201
	ErrCodeDuplicateTimestamp ErrorCode = 202
	ErrCodeSeriesMismatch     ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeInsufficientData       ErrorCode = 302

	// Overlay formula errors (400-499)
	ErrCodeFormulaSyntax        ErrorCode = 400
	ErrCodeFormulaUnknownColumn ErrorCode = 401
	ErrCodeFormulaEvaluation    ErrorCode = 402
	ErrCodeFormulaNonNumeric    ErrorCode = 403

	// Market data errors (500-599)
	ErrCodeFetchFailed     ErrorCode = 500
	ErrCodeProviderUnknown ErrorCode = 501
	ErrCodeInvalidTimespan ErrorCode = 502
	ErrCodeParseFailed     ErrorCode = 503

	// Event annotation errors (600-699)
	ErrCodeEventFetchFailed ErrorCode = 600
	ErrCodeNoMatch          ErrorCode = 601

	// Export errors (700-799)
	ErrCodeExportFailed ErrorCode = 700
	ErrCodeImportFailed ErrorCode = 701

	// Server errors (800-899)
	ErrCodeConfigInvalid ErrorCode = 800
	ErrCodeStreamClosed  ErrorCode = 801
)
