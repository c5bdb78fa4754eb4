// Package checksum fingerprints save payloads.
//
// Checksums are informational: they appear in verbose logs and the run
// summary so operators can compare a file with its stored row. They never
// drive change detection; every eligible file is written on every run.
package checksum
