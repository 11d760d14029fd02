// Package program loads YAML program definitions – named, ordered
// instruction streams – used as process creation input.
package program
