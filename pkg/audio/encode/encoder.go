// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for frame encoders
package encode

// Encoder encodes one block of normalized samples into a wire frame
type Encoder interface {
	// Encode converts samples to an encoded frame of the same length
	Encode(samples []float32) ([]byte, error)

	// Close releases encoder resources
	Close() error
}
