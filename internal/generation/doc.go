// Package generation defines the boundary between the phrasebook and the
// external language models used to autofill a phrase's meaning, example and
// memory tip. Providers live under internal/platform; this package holds the
// Suggester contract, the shared prompt and the response parser so every
// provider behaves identically.
package generation
