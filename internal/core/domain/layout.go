package domain

import "time"

const (
	// IgnoreFileName is the name of the per-directory ignore rule file.
	IgnoreFileName = ".gitignore"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "pathwatch.yaml"

	// VCSDirName is the version control directory that is never listed or watched.
	VCSDirName = ".git"

	// DefaultDebounce is the quiet period after the last event before a notification is sent.
	DefaultDebounce = time.Second

	// DefaultMaxPaths caps both the re-scan listing and the delivered snapshot.
	DefaultMaxPaths = 1000

	// DefaultFloodThreshold is the number of raw events per debounce window
	// above which incremental tracking is abandoned for a full re-scan.
	DefaultFloodThreshold = 100

	// DefaultListenAddr is the loopback address the update server binds to.
	DefaultListenAddr = "127.0.0.1:0"
)

// defaultExclusions are directories that are never interesting to consumers.
var defaultExclusions = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/__pycache__/**",
	"**/env/**",
	"**/venv/**",
	"**/target/dependency/**",
	"**/build/dependencies/**",
	"**/dist/**",
	"**/out/**",
	"**/bundle/**",
	"**/vendor/**",
	"**/tmp/**",
	"**/temp/**",
	"**/deps/**",
	"**/pkg/**",
	"**/Pods/**",
}

// DefaultExclusions returns a copy of the built-in exclusion globs.
func DefaultExclusions() []string {
	out := make([]string, len(defaultExclusions))
	copy(out, defaultExclusions)
	return out
}
