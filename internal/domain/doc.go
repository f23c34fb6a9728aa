// Package domain defines the core business entities of the study material
// generator: source documents, flashcards, quiz questions, study notes,
// summaries, and users. Entities validate themselves and return sentinel
// errors; no persistence or transport concerns live here.
package domain
