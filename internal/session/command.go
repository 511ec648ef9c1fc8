package session

// Prompt starts every command line of a transcript.
const Prompt = "$ "

// Special cd targets.
const (
	PathRoot   = "/"
	PathParent = ".."
)

// Command is one command of a transcript, together with any output it
// produced.
type Command interface {
	// Name is the shell command, "cd" or "ls".
	Name() string
	// Position is the 1-based transcript line of the prompt.
	Position() int
}

// ChangeDirectory is `cd PATH`.
type ChangeDirectory struct {
	Path string
	Line int
}

func (c ChangeDirectory) Name() string {
	return "cd"
}

func (c ChangeDirectory) Position() int {
	return c.Line
}

// List is `ls` and the entries it printed.
type List struct {
	Entries []ListEntry
	Line    int
}

func (c List) Name() string {
	return "ls"
}

func (c List) Position() int {
	return c.Line
}

// EntryKind distinguishes file and directory listing lines.
type EntryKind int

const (
	EntryFile EntryKind = iota
	EntryDirectory
)

func (k EntryKind) String() string {
	switch k {
	case EntryFile:
		return "file"
	case EntryDirectory:
		return "dir"
	default:
		return "unknown"
	}
}

// ListEntry is one line of `ls` output. Size is zero for directories.
type ListEntry struct {
	Kind EntryKind
	Name string
	Size uint64
}
