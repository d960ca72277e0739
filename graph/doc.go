// Package graph presents a solid k-mer set as an implicit de Bruijn graph.
//
// Nodes are canonical k-mers that the membership filter reports as present.
// Edges are never stored: the successors of a node are the four one-symbol
// extensions to the right that are themselves members, the predecessors
// the four extensions to the left. Every query is a pure function of the
// node, the codec and the filter, so a Graph is safe for concurrent use.
//
// The filter cannot list its members, so Nodes replays a candidate source
// (normally the sequences the graph was built from) and keeps the distinct
// canonical k-mers that pass the membership test.
package graph
