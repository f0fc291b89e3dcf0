package ports

// IgnoreEvaluator decides whether a path is excluded from tracking.
//
//go:generate mockgen -source=ignore.go -destination=mocks/mock_ignore.go -package=mocks
type IgnoreEvaluator interface {
	// ShouldIgnore reports whether path is matched by the gitignore rules
	// governing its directory or by any of the exclusion globs.
	ShouldIgnore(path string, exclusionGlobs []string) bool
	// ClearCache drops every cached per-directory ruleset.
	ClearCache()
}
