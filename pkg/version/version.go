// Package version holds the library version reported to AFS.
package version

// Version is the library version. Overridden at build time with
// -ldflags "-X github.com/ajitpratap0/afs-connector/pkg/version.Version=..."
var Version = "1.0.0"

// APIVersion returns the tag sent in the afs:log parameter so the engine
// can tell which client library issued a query.
func APIVersion() string {
	return "AFS@Go-v" + Version
}
