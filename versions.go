// Package contextiogo provides version information for contextio-go.
package contextiogo

import "github.com/forcebit/contextio-go/pkg/oauth"

const (
	// Version is the current version of contextio-go
	Version = "2.0.0"

	// OAuthVersion is the OAuth protocol version sent as oauth_version
	OAuthVersion = oauth.Version

	// APIVersion is the Context.IO REST API version this library targets
	APIVersion = "2.0"

	// UserAgent identifies the library on every request
	UserAgent = "ContextIOLibrary/" + APIVersion + " (Go)"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	LibraryVersion string
	OAuthVersion   string
	APIVersion     string
	UserAgent      string
}

// GetVersionInfo returns version information for the library
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		LibraryVersion: Version,
		OAuthVersion:   OAuthVersion,
		APIVersion:     APIVersion,
		UserAgent:      UserAgent,
	}
}
