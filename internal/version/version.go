// Package version provides application version information.
// The version can be set at build time using ldflags:
//
//	go build -ldflags "-X github.com/ramonehamilton/cubedraft/internal/version.Version=v1.2.3"
package version

// Version is the application version. It defaults to "dev" and can be
// overridden at build time using ldflags.
var Version = "dev"

// Service names this application in health checks and user agents.
const Service = "cubedraft"

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}
