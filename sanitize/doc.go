// Package sanitize repairs text extracted from resume files.
//
// PDF and Word extraction regularly produces byte sequences that are not
// valid UTF-8: truncated multi-byte runes, CESU-8 encoded surrogate pairs
// from broken converters, and stray continuation bytes. The Sanitizer turns
// any such input into text that is guaranteed to encode cleanly, either by
// replacing invalid bytes with U+FFFD (the default, lossy-repair policy) or
// by stripping them.
package sanitize
