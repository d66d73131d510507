// Package groq implements generation.Suggester against Groq's
// OpenAI-compatible chat completions API. Any server speaking the same
// protocol can be used by pointing llm.base_url at it.
package groq
