// Package booktalk provides an interactive, CLI-based way to chat with a book.
// It extracts the text of an EPUB file, splits it into overlapping fragments,
// indexes the fragments for semantic search, and answers natural language
// questions by feeding the most relevant fragments to a language model.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, gemini/).
package booktalk
