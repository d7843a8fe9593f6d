package common

// IntendedAudienceKey classifies who a resource or a request is scoped to,
// from the same closed set BaseEntity's VisibilityLevel draws from.
type IntendedAudienceKey string

const (
	TenantAudienceIDKey            IntendedAudienceKey = "TenantAudience"
	ClientApplicationAudienceIDKey IntendedAudienceKey = "ClientAudience"
	GroupAudienceIDKey             IntendedAudienceKey = "GroupAudience"
	UserAudienceIDKey              IntendedAudienceKey = "UserAudience"
)
