// Package engine runs probe tasks on a bounded worker pool and
// republishes their results in submission order. Workers finish in
// whatever order the network allows; the reassembler buffers
// out-of-order results so observers always see ordinal 1, 2, 3, ...
// with no gaps and no duplicates.
package engine
