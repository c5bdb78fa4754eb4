// Package files groups the file access used by savemigrate.
//
//   - filesystem: flat directory listing and whole-file reads (OS and in-memory)
package files
