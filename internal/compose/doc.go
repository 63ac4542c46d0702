// Package compose decodes the subset of the Compose file format this system
// understands: a top-level services mapping whose entries carry an image and
// optional port declarations.
//
// Decoding is typed and preserves service declaration order. Services that
// do not satisfy the minimal shape are reported as skipped rather than
// failing the whole file.
package compose
