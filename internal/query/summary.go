package query

import (
	"github.com/chenkai036/aoc/internal/fs"
	"github.com/chenkai036/aoc/internal/model"
)

// Summarize solves the store and describes it as a tree of sizes.
func Summarize(s *fs.Store) (_ model.Result, err error) {
	defer recoverOverflow(&err)
	sizes := fs.Sizes(s)
	used := sizes.Of(s.Root())

	deleted, part2, err := smallestSufficientDelete(s, sizes, TotalSpace, RequiredFree)
	if err != nil {
		return model.Result{}, err
	}

	result := model.Result{
		Root: buildNode(s, sizes, s.Root()),
		Answers: model.Answers{
			Part1: smallDirectorySum(s, sizes, SmallDirLimit),
			Part2: part2,
		},
		Directories: s.NumDirs(),
		Files:       s.NumFiles(),
		Used:        used,
		Needed:      needed(used, TotalSpace, RequiredFree),
	}
	if used < TotalSpace {
		result.Free = TotalSpace - used
	}
	if result.Needed > 0 {
		result.DeletePath = fs.AbsPath(s, deleted)
	}
	for _, c := range s.Conflicts() {
		result.Conflicts = append(result.Conflicts, model.SizeConflict{
			Path:    fs.FileAbsPath(s, c.File),
			Kept:    c.Stored,
			Ignored: c.Rejected,
		})
	}
	return result, nil
}

func buildNode(s *fs.Store, sizes fs.SizeIndex, d fs.DirHandle) *model.TreeNode {
	dir := s.Dir(d)
	size := sizes.Of(d)
	node := &model.TreeNode{
		Name:  dir.Name,
		Path:  fs.AbsPath(s, d),
		IsDir: true,
		Size:  size,
		Small: size <= SmallDirLimit,
	}
	for _, child := range dir.Dirs {
		node.Children = append(node.Children, buildNode(s, sizes, child))
	}
	for _, f := range dir.Files {
		file := s.File(f)
		node.Children = append(node.Children, &model.TreeNode{
			Name: file.Name,
			Path: fs.FileAbsPath(s, f),
			Size: file.Size,
		})
	}
	return node
}
