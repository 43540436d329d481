// ABOUTME: Version and product identity of the streaming client
// ABOUTME: Shared by the CLI -version flag and the TUI header
package version

const (
	// Version is the software version
	Version = "0.1.0"

	// Product is the product name
	Product = "Basic AI Call"

	// Manufacturer is the maintainer name
	Manufacturer = "basic-ai-call"
)
