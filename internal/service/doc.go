// Package service contains the application use cases for managing phrases.
// It orchestrates domain objects and the phrase store (defined in
// internal/store) and never depends on a specific storage engine.
//
// Services receive their dependencies through constructor injection, run
// every read-modify-write inside a single store transaction, and return
// domain and store sentinel errors unchanged so the API layer can map them
// to status codes. Unexpected failures are wrapped in PhraseServiceError.
//
// The review workflow lives in the review subpackage.
package service
