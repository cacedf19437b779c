// Package pipeline wires loading, epoch splitting, trimming, resampling
// and writing into a single run over one input file.
//
// Every epoch is regridded in memory before any file is written, so a run
// that fails leaves no output behind. Epochs share no state and may be
// processed concurrently.
package pipeline
