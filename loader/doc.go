// Package loader turns a directory of resume files into a cleaned, cached
// document set.
//
// Loading is manifest-driven: the directory's file names, sizes, and
// modification times are fingerprinted, and a cached extraction is reused
// only while that fingerprint is unchanged. Extraction runs on a worker
// pool; files that produce no usable text are skipped, never fatal.
package loader
