package model

// TreeNode is a directory or file of the solved filesystem, with its
// absolute path and subtree size.
type TreeNode struct {
	Name  string `json:"name" yaml:"name"`
	Path  string `json:"path" yaml:"path"`
	IsDir bool   `json:"is_dir" yaml:"is_dir"`
	Size  uint64 `json:"size" yaml:"size"`
	// Small marks a directory counted by part 1.
	Small    bool        `json:"small,omitempty" yaml:"small,omitempty"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Answers holds both puzzle answers.
type Answers struct {
	Part1 uint64 `json:"part1" yaml:"part1"`
	Part2 uint64 `json:"part2" yaml:"part2"`
}

// SizeConflict describes a file that was listed twice with different sizes.
type SizeConflict struct {
	Path    string `json:"path" yaml:"path"`
	Kept    uint64 `json:"kept" yaml:"kept"`
	Ignored uint64 `json:"ignored" yaml:"ignored"`
}

// Result is everything derived from one transcript.
type Result struct {
	Root        *TreeNode `json:"root" yaml:"root"`
	Answers     Answers   `json:"answers" yaml:"answers"`
	Directories int       `json:"directories" yaml:"directories"`
	Files       int       `json:"files" yaml:"files"`
	Used        uint64    `json:"used" yaml:"used"`
	Free        uint64    `json:"free" yaml:"free"`
	// Needed is what must still be freed; zero when there is enough room.
	Needed uint64 `json:"needed" yaml:"needed"`
	// DeletePath is the directory chosen by part 2, if any.
	DeletePath string         `json:"delete_path,omitempty" yaml:"delete_path,omitempty"`
	Conflicts  []SizeConflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}
