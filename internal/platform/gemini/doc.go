// Package gemini provides an implementation of the generation.Suggester
// interface that uses Google's Gemini API to autofill phrases.
//
// This package is an infrastructure adapter: it renders the shared autofill
// prompt, sends it through the google.golang.org/genai client with a JSON
// response type, and hands the model output to generation.ParseSuggestion.
//
// Errors are translated into the generation package's taxonomy. Every
// transport, safety-filter or parse problem wraps
// generation.ErrSuggestionFailed, and calls are never retried.
package gemini
