// Package sink provides a deduplicating append-only line sink for hit
// URLs. Lines already present in the target file on open, or offered
// earlier in the same run, are silently dropped, so repeated runs
// against the same output file only ever append new discoveries.
package sink
