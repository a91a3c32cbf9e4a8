package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	PoolKey    ContextKey = "pool"
	TxKey      ContextKey = "tx"
	LoggerKey  ContextKey = "logger"
	ParamsKey  ContextKey = "params"
	AuthCtxKey ContextKey = "authctx"
)

// Validate is the shared validator instance. Register custom rules here so
// every DTO sees the same configuration.
var Validate = validator.New(validator.WithRequiredStructEnabled())
