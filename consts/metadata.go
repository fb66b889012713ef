package consts

// GinContextKey gin context key
const GinContextKey = "gin-context"

// TenantHeader carries the caller's tenant name on the public surface.
const TenantHeader string = "X-Tenant-ID"

// TraceHeader carries the request trace id.
const TraceHeader string = "X-Trace-ID"

// TraceKey global trace id
const TraceKey string = "trace_id"

// TenantKey global tenant name
const TenantKey string = "tenant_name"

// External id prefixes, one per entity kind.
const (
	PrefixTenant  = "tenant"
	PrefixPurpose = "purpose"
	PrefixFile    = "file"
	PrefixLink    = "link"
)

// Object names reported in API responses.
const (
	ObjectFile     = "file"
	ObjectFileLink = "file_link"
)
