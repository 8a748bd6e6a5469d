// Package scanner orchestrates a full media resolution pass: a page
// snapshot goes in, a ResolvedMediaSet comes out.
//
// The pipeline is a fixed dispatch over the URL classification:
//
//	classify(path) -> layout resolver -> layout.Target
//	Target -> remote enrichment (optional) + page media extraction
//	-> assemble.ResolvedMediaSet
//
// Every error is absorbed at this boundary. Callers only ever see a
// result with Found false and one of two user-facing messages: a
// generic not-found or the blob correlation failure.
package scanner
