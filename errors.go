package gemini

import "github.com/voocel/gemini/providers"

type (
	Error     = providers.Error
	ErrorType = providers.ErrorType
)

const (
	ErrorTypeAuth       = providers.ErrorTypeAuth
	ErrorTypeRateLimit  = providers.ErrorTypeRateLimit
	ErrorTypeNetwork    = providers.ErrorTypeNetwork
	ErrorTypeValidation = providers.ErrorTypeValidation
	ErrorTypeProvider   = providers.ErrorTypeProvider
	ErrorTypeTimeout    = providers.ErrorTypeTimeout
	ErrorTypeQuota      = providers.ErrorTypeQuota
	ErrorTypeModel      = providers.ErrorTypeModel
	ErrorTypeDecode     = providers.ErrorTypeDecode
	ErrorTypeInternal   = providers.ErrorTypeInternal
)

// Decode failures of a single-shot call; match with errors.Is.
var (
	ErrNoCompletion            = providers.ErrNoCompletion
	ErrMissingText             = providers.ErrMissingText
	ErrMissingPromptTokens     = providers.ErrMissingPromptTokens
	ErrMissingCompletionTokens = providers.ErrMissingCompletionTokens
	ErrMissingTotalTokens      = providers.ErrMissingTotalTokens
	ErrStreamClosed            = providers.ErrStreamClosed
)

func IsAuthError(err error) bool      { return providers.IsAuthError(err) }
func IsRateLimitError(err error) bool { return providers.IsRateLimitError(err) }
func IsDecodeError(err error) bool    { return providers.IsDecodeError(err) }
func IsRetryableError(err error) bool { return providers.IsRetryableError(err) }
