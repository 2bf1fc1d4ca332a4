// Package inspector summarizes a bundle (manifest identity, entry count,
// size totals, splash presence) without extracting anything.
package inspector
