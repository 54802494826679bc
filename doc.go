// Package mdpress converts a directory of markdown files into a static,
// paginated, directly-linkable JSON content store consumable by a browser
// with no backend.
//
// The pipeline assigns each source file a content-hash identity, copies and
// rewrites relative image references, converts external links to safe
// anchors, and persists every post as an individually addressable JSON record
// next to an aggregate index. Ingestion is idempotent and append-only:
// re-running over an unchanged source directory writes nothing.
package mdpress
