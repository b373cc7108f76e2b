package constants

import "github.com/go-playground/validator/v10"

type ContextKey string

const (
	PoolKey   ContextKey = "pool"
	TxKey     ContextKey = "tx"
	LoggerKey ContextKey = "logger"
)

const DateLayout = "2006-01-02"

// Validate is the shared validator for request DTOs.
var Validate = validator.New(validator.WithRequiredStructEnabled())
