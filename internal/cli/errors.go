package cli

// Error codes used in JSON error responses.
const (
	ErrCodeStoreNotFound      = "STORE_NOT_FOUND"
	ErrCodeConfigError        = "CONFIG_ERROR"
	ErrCodeNoteNotFound       = "NOTE_NOT_FOUND"
	ErrCodeNoteExists         = "NOTE_EXISTS"
	ErrCodeAmbiguousReference = "AMBIGUOUS_REFERENCE"
	ErrCodeInvalidReference   = "INVALID_REFERENCE"
	ErrCodeExpressionError    = "EXPRESSION_ERROR"
	ErrCodeViewError          = "VIEW_ERROR"
	ErrCodeRelationError      = "RELATION_ERROR"
	ErrCodeStorageError       = "STORAGE_ERROR"
	ErrCodeInvalidArgument    = "INVALID_ARGUMENT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)
