// ABOUTME: Audio output package for playing decoded blocks
// ABOUTME: Provides the Output interface with oto and malgo backends
// Package output provides block-at-a-time audio playback.
//
// Every backend renders one block per Play call and reports completion
// through a callback, which lets a scheduler chain blocks back to back.
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(8000, 1)
//	err = out.Play(block, func() { log.Println("block finished") })
package output
