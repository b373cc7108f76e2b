package serrors

import "errors"

// BaseError is a coded error that callers can match with errors.Is
// regardless of the message it carries.
type BaseError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	LocaleKey string `json:"locale_key,omitempty"`
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	return e.Message
}

func (e *BaseError) Is(target error) bool {
	var other *BaseError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// WithMessage returns a copy of e carrying a more specific message.
func (e *BaseError) WithMessage(message string) *BaseError {
	return &BaseError{Code: e.Code, Message: message, LocaleKey: e.LocaleKey}
}

// Code extracts the code of the first BaseError in err's chain.
func Code(err error) (string, bool) {
	var base *BaseError
	if errors.As(err, &base) {
		return base.Code, true
	}
	return "", false
}
