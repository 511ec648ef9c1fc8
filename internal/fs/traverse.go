package fs

import (
	"errors"
	"math/bits"
	"strings"
)

// ErrOverflow is panicked with when summed sizes exceed 64 bits.
var ErrOverflow = errors.New("size overflow")

// Entry is a tagged view of either a directory or a file. Exactly one of
// Dir and File is set.
type Entry struct {
	Dir  *Directory
	File *File
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Dir != nil
}

// Name returns the name of the entry.
func (e Entry) Name() string {
	if e.Dir != nil {
		return e.Dir.Name
	}
	return e.File.Name
}

// AddSize returns a+b, panicking with ErrOverflow on a carry.
func AddSize(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		panic(ErrOverflow)
	}
	return sum
}

// AbsPath returns the absolute path of d. Directory paths always end in the
// separator; the root is "/".
func AbsPath(s *Store, d DirHandle) string {
	var names []string
	for cur := s.Dir(d); !cur.IsRoot(); cur = s.Dir(cur.Parent) {
		names = append(names, cur.Name)
	}

	var b strings.Builder
	b.WriteString(Separator)
	for i := len(names) - 1; i >= 0; i-- {
		b.WriteString(names[i])
		b.WriteString(Separator)
	}
	return b.String()
}

// FileAbsPath returns the absolute path of f, without a trailing separator.
func FileAbsPath(s *Store, f FileHandle) string {
	file := s.File(f)
	return AbsPath(s, file.Parent) + file.Name
}

// Resolve finds the directory with the given absolute path. Both "/a/e"
// and "/a/e/" name the same directory.
func Resolve(s *Store, path string) (DirHandle, bool) {
	if !strings.HasPrefix(path, Separator) {
		return 0, false
	}
	cur := Root
	for _, name := range strings.Split(strings.Trim(path, Separator), Separator) {
		if name == "" {
			continue
		}
		next, ok := s.LookupDir(cur, name)
		if !ok {
			return 0, false
		}
		cur = next
	}
	return cur, true
}

// Walk visits d, then each of its files, then recurses into its
// subdirectories in order. Every entry below d is visited exactly once.
func Walk(s *Store, d DirHandle, onDir func(*Directory), onFile func(*File)) {
	dir := s.Dir(d)
	if onDir != nil {
		onDir(dir)
	}
	if onFile != nil {
		for _, f := range dir.Files {
			onFile(s.File(f))
		}
	}
	for _, child := range dir.Dirs {
		Walk(s, child, onDir, onFile)
	}
}

// Fold reduces the subtree rooted at d in post-order: subdirectories first
// (each folded recursively), then the files of d, and finally d itself.
// A directory is therefore visited after all of its descendants.
func Fold[T any](s *Store, d DirHandle, seed T, reduce func(T, Entry) T) T {
	dir := s.Dir(d)
	acc := seed
	for _, child := range dir.Dirs {
		acc = Fold(s, child, acc, reduce)
	}
	for _, f := range dir.Files {
		acc = reduce(acc, Entry{File: s.File(f)})
	}
	return reduce(acc, Entry{Dir: dir})
}

// Size returns the total size of all files below d. It walks the whole
// subtree; use Sizes when the size of every directory is needed.
func Size(s *Store, d DirHandle) uint64 {
	return Fold(s, d, uint64(0), func(acc uint64, e Entry) uint64 {
		if e.IsDir() {
			return acc
		}
		return AddSize(acc, e.File.Size)
	})
}

// SizeIndex holds the subtree size of every directory, indexed by handle.
type SizeIndex []uint64

// Of returns the subtree size of d.
func (idx SizeIndex) Of(d DirHandle) uint64 {
	return idx[d]
}

// Sizes computes the subtree size of every directory in one pass.
//
// A directory is always inserted after its parent, so its handle is
// greater. Scanning handles from last to first sees every child before its
// parent.
func Sizes(s *Store) SizeIndex {
	idx := make(SizeIndex, len(s.dirs))
	for _, f := range s.files {
		idx[f.Parent] = AddSize(idx[f.Parent], f.Size)
	}
	for d := len(s.dirs) - 1; d > 0; d-- {
		parent := s.dirs[d].Parent
		idx[parent] = AddSize(idx[parent], idx[d])
	}
	return idx
}
