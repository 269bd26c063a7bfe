// Package html provides a Normaliser implementation for HTML documents.
// It tokenises the markup, drops scripts, styles and other non-content
// elements, and keeps block structure as line and paragraph breaks so
// section detection and segmenting still work on the result.
package html
