// Package model defines the core data types shared across userscout:
// site descriptors, probe tasks, and probe results.
//
// Types in this package are plain data carriers. They are created once,
// handed from producer to consumer, and never mutated after handoff.
package model
