// Package normalisers provides implementations of the Normaliser interface
// for the knowledge corpus file formats. Each normaliser extracts text from
// a specific MIME type and keeps paragraphs separated by blank lines, which
// is what the passage splitter relies on.
//
// Normalisers are registered with the Registry at startup.
package normalisers
