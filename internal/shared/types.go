package shared

// Asynq task types.
const (
	TypeImportProducts        = "import:products"
	TypeImportCrossReferences = "import:cross_references"
	TypeStaleImportCheck      = "import:stale_check"
)

// Gin context keys set by middleware.
const (
	ContextUserID    = "userID"
	ContextClientIP  = "client_ip"
	ContextRequestID = "request_id"
)

// Config table key suffixes used by the auth resolver. The full key is
// "<prefix>_<suffix>", e.g. import_api_enabled.
const (
	ConfigSuffixEnabled  = "enabled"
	ConfigSuffixUsername = "username"
	ConfigSuffixPassword = "password"
)

// AuthPrefixImportAPI gates the import endpoints.
const AuthPrefixImportAPI = "import_api"
