package graph

import (
	"fmt"

	"github.com/hupe1980/kmergraph/kmer"
	"github.com/hupe1980/kmergraph/wideint"
)

// Node is a canonical k-mer read on one strand. Two nodes are the same
// graph node iff their Kmer fields are equal.
type Node[T wideint.Int[T]] struct {
	Kmer   T
	Strand kmer.Strand
}

// Direction selects the side of a node to extend.
type Direction uint8

const (
	// Outgoing follows successors: a symbol appended on the right.
	Outgoing Direction = 1 << iota
	// Incoming follows predecessors: a symbol prepended on the left.
	Incoming
	// Both is Outgoing and Incoming.
	Both = Outgoing | Incoming
)

func (d Direction) String() string {
	switch d {
	case Outgoing:
		return "outgoing"
	case Incoming:
		return "incoming"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Edge links From to a neighbor To. Nucleotide is the symbol appended
// (Outgoing) or prepended (Incoming) to From, read on From's strand.
type Edge[T wideint.Int[T]] struct {
	From       Node[T]
	To         Node[T]
	Nucleotide byte
	Direction  Direction
}
