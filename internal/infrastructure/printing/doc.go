// Package printing turns trade document views into PDF files.
//
// TemplateEngine lays out a document view as HTML from the embedded
// templates, ChromedpRenderer prints that HTML through headless Chrome and
// DocumentRenderer ties the two together for the print service. Final
// renderings can be kept with FileSystemArchive.
package printing
