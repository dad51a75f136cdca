package events

const (
	SubjectIndexComputed     = "atlas.index.computed"
	SubjectIndexCacheCleared = "atlas.index.cache_cleared"
	SubjectSchemeRegistered  = "atlas.index.scheme_registered"
	SubjectGeometryValidated = "atlas.geometry.validated"

	StreamName   = "ATLAS_EVENTS"
	StreamMaxAge = "720h" // 30 days
)
