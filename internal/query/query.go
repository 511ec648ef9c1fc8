// Package query answers the size questions asked of a replayed filesystem.
package query

import (
	"errors"
	"fmt"
	"io"

	"github.com/chenkai036/aoc/internal/fs"
	"github.com/chenkai036/aoc/internal/model"
	"github.com/chenkai036/aoc/internal/session"
)

const (
	// TotalSpace is the capacity of the device.
	TotalSpace uint64 = 70_000_000
	// RequiredFree is the free space the update needs.
	RequiredFree uint64 = 30_000_000
	// SmallDirLimit is the largest size counted by SmallDirectorySum.
	SmallDirLimit uint64 = 100_000
)

// ErrUnsatisfiable is returned when deleting any directory cannot free
// enough space.
var ErrUnsatisfiable = errors.New("no directory frees enough space")

// SmallDirectorySum returns the sum of the subtree sizes of all directories
// whose subtree size is at most limit. Nested directories are counted on
// their own and again as part of each ancestor. It panics with
// fs.ErrOverflow when sizes exceed 64 bits.
func SmallDirectorySum(s *fs.Store, limit uint64) uint64 {
	return smallDirectorySum(s, fs.Sizes(s), limit)
}

func smallDirectorySum(s *fs.Store, sizes fs.SizeIndex, limit uint64) uint64 {
	return fs.Fold(s, s.Root(), uint64(0), func(acc uint64, e fs.Entry) uint64 {
		if !e.IsDir() {
			return acc
		}
		if size := sizes.Of(e.Dir.Handle); size <= limit {
			return fs.AddSize(acc, size)
		}
		return acc
	})
}

// SmallestSufficientDelete returns the size of the smallest directory whose
// deletion leaves at least required bytes free on a device of total bytes.
// It returns 0 when enough space is already free.
// Summed sizes past 64 bits are reported as fs.ErrOverflow.
func SmallestSufficientDelete(s *fs.Store, total, required uint64) (_ uint64, err error) {
	defer recoverOverflow(&err)
	_, size, err := smallestSufficientDelete(s, fs.Sizes(s), total, required)
	return size, err
}

func smallestSufficientDelete(s *fs.Store, sizes fs.SizeIndex, total, required uint64) (fs.DirHandle, uint64, error) {
	need := needed(sizes.Of(s.Root()), total, required)
	if need == 0 {
		return 0, 0, nil
	}

	best, bestSize, found := fs.Root, uint64(0), false
	for d, size := range sizes {
		if size >= need && (!found || size < bestSize) {
			best, bestSize, found = fs.DirHandle(d), size, true
		}
	}
	if !found {
		return 0, 0, ErrUnsatisfiable
	}
	return best, bestSize, nil
}

// needed is how much must be deleted so that total-used >= required.
func needed(used, total, required uint64) uint64 {
	target := fs.AddSize(used, required)
	if target <= total {
		return 0
	}
	return target - total
}

// recoverOverflow turns an fs.ErrOverflow panic into an error returned
// through err. Any other panic is re-raised.
func recoverOverflow(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok && errors.Is(e, fs.ErrOverflow) {
		*err = fmt.Errorf("sum file sizes: %w", e)
		return
	}
	panic(r)
}

// SolveStore computes both answers for an already replayed store.
func SolveStore(s *fs.Store) (_ model.Answers, err error) {
	defer recoverOverflow(&err)
	sizes := fs.Sizes(s)
	_, part2, err := smallestSufficientDelete(s, sizes, TotalSpace, RequiredFree)
	if err != nil {
		return model.Answers{}, err
	}
	return model.Answers{
		Part1: smallDirectorySum(s, sizes, SmallDirLimit),
		Part2: part2,
	}, nil
}

// Solve replays the transcript read from r and computes both answers.
// Parse errors are returned unchanged.
func Solve(r io.Reader, opts ...session.Option) (model.Answers, error) {
	state, err := session.Replay(r, opts...)
	if err != nil {
		return model.Answers{}, err
	}
	return SolveStore(state.FS)
}
