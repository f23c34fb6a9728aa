// Package generation provides interfaces and error definitions for
// interacting with external AI/LLM services. It abstracts the details of
// LLM API integration (Gemini), allowing the application to generate study
// materials from documents without coupling to specific external services.
package generation
