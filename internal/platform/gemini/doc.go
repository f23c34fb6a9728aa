// Package gemini provides an implementation of the generation.Generator
// interface that uses Google's Gemini API to generate study materials from
// document text.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the application's domain logic to Google's external Gemini AI
// service. It translates between the application's domain models and the
// Gemini API without exposing the details of the external service to the
// core application.
//
// Key components:
//
// 1. StudyMaterialGenerator:
//   - Implements the generation.Generator interface
//   - Handles communication with the Gemini API
//   - Processes structured responses into domain models
//
// 2. Prompt Management:
//   - Holds one prompt template per material kind
//   - Substitutes document content into templates
//
// 3. Response Processing:
//   - Parses structured JSON responses from the API
//   - Converts API responses into domain objects
//   - Validates results against the authored cardinality rules
//
// 4. Error Handling:
//   - Implements retry logic with exponential backoff for transient errors
//   - Categorizes and translates API errors to application-specific errors
//   - Handles content filtering and safety measures
package gemini
