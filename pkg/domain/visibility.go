package common

// VisibilityTypeKey classifies how a BaseEntity's visibility is enforced.
type VisibilityTypeKey string

const (
	PublicVisibilityTypeKey     VisibilityTypeKey = "Public"
	CustomVisibilityTypeKey     VisibilityTypeKey = "Custom"
	RestrictedVisibilityTypeKey VisibilityTypeKey = "Restricted"
	PrivateVisibilityTypeKey    VisibilityTypeKey = "Private"
)

const (
	// AudienceKey carries the requester's IntendedAudienceKey in context.
	AudienceKey ContextKey = "x-audience"

	// AuthenticatedKey carries whether the requester is authenticated.
	AuthenticatedKey ContextKey = "x-authenticated"
)
