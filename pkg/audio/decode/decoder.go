// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for frame decoders
package decode

// Decoder decodes one wire frame into normalized samples
type Decoder interface {
	// Decode converts an encoded frame to samples
	Decode(data []byte) ([]float32, error)

	// Close releases decoder resources
	Close() error
}
