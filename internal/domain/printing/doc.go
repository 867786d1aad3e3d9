// Package printing contains the document rendering context: which PDF variant
// of a trade document is produced, on what paper, and the archive record kept
// for every rendered final copy.
package printing
