// Package extraction runs the document analysis pipeline.
//
// An extraction job moves through downloading, extracting, scoring and
// storing phases, persisting progress after each one so the API can
// report it. Extraction itself is pluggable behind the Extractor
// interface; the default implementation reads a JSON payload produced
// by an external parser alongside the stored document.
package extraction
