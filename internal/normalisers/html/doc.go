// Package html provides a normaliser that extracts paragraph text from
// HTML knowledge pages.
package html
