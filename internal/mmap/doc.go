// Package mmap maps whole files read-only.
//
// LocalStore serves snapshot and sequence blobs from a Mapping so that
// filter payloads and reads decode straight out of the page cache.
//
//	m, err := mmap.Open("graph.kmgs")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.Sequential)
//
// Bytes and Slice alias the mapping and are invalid after Close.
package mmap
