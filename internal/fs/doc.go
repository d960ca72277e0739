// Package fs abstracts the file system under blobstore.LocalStore so that
// write failures can be injected in tests.
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: wraps another FileSystem and fails writes, syncs, closes
//     or renames of matching files
//
// Production code uses fs.Default. Tests inject a FaultyFS:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.Inject("graph.kmg", fs.Fault{Op: fs.OpWrite, AfterBytes: 1024})
//
// Operations take no context.Context: local file system calls are not
// interruptible at the syscall level.
package fs
