package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	HeaderAuthorization = "Authorization"

	// Context keys
	ContextKeyOperatorID   = "operator_id"
	ContextKeyOperatorRole = "operator_role"

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
	MaxBulkOperators    = 100
	MaxTextLength       = 1000
)
