// Package input provides microphone capture backends.
//
// Backends deliver one period of float32 samples per device cycle through
// a BlockFunc running on the realtime audio thread.
//
// Example:
//
//	mic := input.NewMalgo()
//	err := mic.Open(8000, 1, 128)
//	err = mic.Start(pool.Process)
package input
