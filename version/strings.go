package version

import (
	"fmt"
)

// These are targets for compiling in build information, set with
// -ldflags "-X github.com/algorand/abicodec/version.ReleaseVersion=..."

var (
	// Hash Git commit hash. Output of `git log -n 1 --pretty="%H"`
	Hash string

	// CompileTime YYYY-mm-ddTHH:MM:SS+ZZZZ
	CompileTime string

	// ReleaseVersion is set using -ldflags during build.
	ReleaseVersion string
)

// UnknownVersion is used when the version is not known.
const UnknownVersion = "(unknown version)"

// Version the binary version.
func Version() string {
	if ReleaseVersion == "" {
		return UnknownVersion
	}
	return ReleaseVersion
}

// LongVersion the long form of the binary version, reported by `abicodec --version`
// and the /health endpoint.
func LongVersion() string {
	tagVersion := Version()
	if tagVersion == UnknownVersion {
		tagVersion = "dev.unknown"
	}
	hash := Hash
	if hash == "" {
		hash = "unknown"
	}
	compileTime := CompileTime
	if compileTime == "" {
		compileTime = "unknown time"
	}
	return fmt.Sprintf("abicodec %s compiled at %s from git hash %s", tagVersion, compileTime, hash)
}
