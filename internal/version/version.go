// Package version provides build-time version information.
//
// Set at build time via:
//
//	go build -ldflags "-X github.com/mfateev/chatbox/internal/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/chatbox
package version

// GitCommit is the short git commit hash, set at build time via ldflags.
var GitCommit = "dev"

// UserAgent is sent by the chat client on every request.
func UserAgent() string {
	return "chatbox/" + GitCommit
}
