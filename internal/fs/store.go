// Package fs models the filesystem observed in a shell session as two
// arenas of records addressed by integer handles.
//
// Directories and files never own each other. A directory holds the handles
// of its children and every entry holds the handle of its parent, so the
// parent/child graph can be navigated in both directions without cycles in
// ownership. Handles are only meaningful together with the Store that issued
// them.
package fs

import (
	"errors"
	"fmt"
)

// Separator is the path separator and the name of the root directory.
const Separator = "/"

// ErrInvalidHandle is returned (or panicked with) when a handle does not
// index its arena.
var ErrInvalidHandle = errors.New("invalid handle")

// DirHandle addresses a directory in a Store.
type DirHandle int

// FileHandle addresses a file in a Store.
type FileHandle int

// Root is the handle of the root directory of every Store.
const Root DirHandle = 0

// Directory is a directory record. Children keep the order in which they
// were first inserted.
type Directory struct {
	Handle DirHandle
	Name   string
	Parent DirHandle
	Dirs   []DirHandle
	Files  []FileHandle
}

// IsRoot reports whether the directory is its own parent.
func (d *Directory) IsRoot() bool {
	return d.Handle == d.Parent
}

// File is a file record. Size is fixed at creation.
type File struct {
	Handle FileHandle
	Name   string
	Size   uint64
	Parent DirHandle
}

// SizeConflict records a repeated file insertion whose size disagreed with
// the size stored on first insertion. The stored size is kept.
type SizeConflict struct {
	File     FileHandle
	Stored   uint64
	Rejected uint64
}

// Store owns the directory and file arenas.
type Store struct {
	dirs      []Directory
	files     []File
	conflicts []SizeConflict
}

// New returns a store holding only the root directory.
func New() *Store {
	return &Store{
		dirs: []Directory{{
			Handle: Root,
			Name:   Separator,
			Parent: Root,
		}},
	}
}

// Root returns the handle of the root directory.
func (s *Store) Root() DirHandle {
	return Root
}

// NumDirs returns the number of directories, root included.
func (s *Store) NumDirs() int {
	return len(s.dirs)
}

// NumFiles returns the number of files.
func (s *Store) NumFiles() int {
	return len(s.files)
}

func (s *Store) validDir(d DirHandle) bool {
	return d >= 0 && int(d) < len(s.dirs)
}

func (s *Store) validFile(f FileHandle) bool {
	return f >= 0 && int(f) < len(s.files)
}

// Dir returns a read-only view of a directory. It panics if d was not
// issued by s.
func (s *Store) Dir(d DirHandle) *Directory {
	if !s.validDir(d) {
		panic(fmt.Errorf("directory %d: %w", d, ErrInvalidHandle))
	}
	return &s.dirs[d]
}

// File returns a read-only view of a file. It panics if f was not issued
// by s.
func (s *Store) File(f FileHandle) *File {
	if !s.validFile(f) {
		panic(fmt.Errorf("file %d: %w", f, ErrInvalidHandle))
	}
	return &s.files[f]
}

// Parent returns the parent of d. The root is its own parent.
func (s *Store) Parent(d DirHandle) DirHandle {
	return s.Dir(d).Parent
}

// IsRoot reports whether d is the root directory.
func (s *Store) IsRoot(d DirHandle) bool {
	return s.Dir(d).IsRoot()
}

// LookupDir finds the child directory of parent called name.
func (s *Store) LookupDir(parent DirHandle, name string) (DirHandle, bool) {
	for _, child := range s.Dir(parent).Dirs {
		if s.dirs[child].Name == name {
			return child, true
		}
	}
	return 0, false
}

// LookupFile finds the child file of parent called name.
func (s *Store) LookupFile(parent DirHandle, name string) (FileHandle, bool) {
	for _, child := range s.Dir(parent).Files {
		if s.files[child].Name == name {
			return child, true
		}
	}
	return 0, false
}

// InsertFile adds a file called name under parent and returns its handle.
// If parent already has a file with that name the existing handle is
// returned and the store is left unchanged; a differing size is recorded as
// a SizeConflict.
func (s *Store) InsertFile(parent DirHandle, name string, size uint64) (FileHandle, error) {
	if !s.validDir(parent) {
		return 0, fmt.Errorf("insert file %q under directory %d: %w", name, parent, ErrInvalidHandle)
	}
	if existing, ok := s.LookupFile(parent, name); ok {
		if stored := s.files[existing].Size; stored != size {
			s.conflicts = append(s.conflicts, SizeConflict{
				File:     existing,
				Stored:   stored,
				Rejected: size,
			})
		}
		return existing, nil
	}

	handle := FileHandle(len(s.files))
	s.files = append(s.files, File{
		Handle: handle,
		Name:   name,
		Size:   size,
		Parent: parent,
	})
	s.dirs[parent].Files = append(s.dirs[parent].Files, handle)
	return handle, nil
}

// InsertDirectory adds a directory called name under parent and returns its
// handle. If parent already has a directory with that name the existing
// handle is returned.
func (s *Store) InsertDirectory(parent DirHandle, name string) (DirHandle, error) {
	if !s.validDir(parent) {
		return 0, fmt.Errorf("insert directory %q under directory %d: %w", name, parent, ErrInvalidHandle)
	}
	if existing, ok := s.LookupDir(parent, name); ok {
		return existing, nil
	}

	handle := DirHandle(len(s.dirs))
	s.dirs = append(s.dirs, Directory{
		Handle: handle,
		Name:   name,
		Parent: parent,
	})
	s.dirs[parent].Dirs = append(s.dirs[parent].Dirs, handle)
	return handle, nil
}

// Conflicts returns the size mismatches seen by InsertFile, in order.
func (s *Store) Conflicts() []SizeConflict {
	return s.conflicts
}
