package session

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/chenkai036/aoc/internal/fs"
	"github.com/chenkai036/aoc/internal/metrics"
)

// State is the walker state of a replay: the store being populated and the
// current directory.
type State struct {
	FS  *fs.Store
	Cwd fs.DirHandle
}

// NewState returns a state positioned at the root of an empty store.
func NewState() *State {
	store := fs.New()
	return &State{FS: store, Cwd: store.Root()}
}

// Replayer folds transcript commands into a State.
type Replayer struct {
	logger *zap.Logger
}

// Option configures a Replayer.
type Option func(*Replayer)

// WithLogger sets the logger used for per-command and conflict messages.
// A nil logger leaves logging off.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Replayer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReplayer creates a Replayer. Without options it does not log.
func NewReplayer(opts ...Option) *Replayer {
	r := &Replayer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Replay parses the transcript read from in and applies every command to a
// fresh State. On error no state is returned.
func (r *Replayer) Replay(in io.Reader) (*State, error) {
	state := NewState()
	parser := NewParser(in)
	for {
		cmd, err := parser.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				metrics.RecordParseError()
			}
			return nil, err
		}
		if err := r.Apply(state, cmd); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("transcript replayed",
		zap.Int("directories", state.FS.NumDirs()),
		zap.Int("files", state.FS.NumFiles()),
		zap.Int("conflicts", len(state.FS.Conflicts())),
	)
	return state, nil
}

// Apply folds a single command into state.
//
//	cd /     moves to the root
//	cd ..    moves to the parent; the root is its own parent
//	cd NAME  moves into NAME, creating it when it was never listed
//	ls       inserts every listed entry under the current directory
func (r *Replayer) Apply(state *State, cmd Command) error {
	metrics.RecordCommand(cmd.Name())
	if ce := r.logger.Check(zap.DebugLevel, "replay command"); ce != nil {
		ce.Write(
			zap.String("command", cmd.Name()),
			zap.Int("line", cmd.Position()),
			zap.String("cwd", fs.AbsPath(state.FS, state.Cwd)),
		)
	}

	switch c := cmd.(type) {
	case ChangeDirectory:
		switch c.Path {
		case PathRoot:
			state.Cwd = state.FS.Root()
		case PathParent:
			state.Cwd = state.FS.Parent(state.Cwd)
		default:
			dir, err := state.FS.InsertDirectory(state.Cwd, c.Path)
			if err != nil {
				return fmt.Errorf("line %d: cd %s: %w", c.Line, c.Path, err)
			}
			state.Cwd = dir
		}
	case List:
		for _, entry := range c.Entries {
			if err := r.insert(state, entry); err != nil {
				return fmt.Errorf("line %d: ls: %w", c.Line, err)
			}
		}
	default:
		return fmt.Errorf("unsupported command %q", cmd.Name())
	}
	return nil
}

func (r *Replayer) insert(state *State, entry ListEntry) error {
	metrics.RecordEntry(entry.Kind.String())

	switch entry.Kind {
	case EntryDirectory:
		_, err := state.FS.InsertDirectory(state.Cwd, entry.Name)
		return err
	case EntryFile:
		before := len(state.FS.Conflicts())
		handle, err := state.FS.InsertFile(state.Cwd, entry.Name, entry.Size)
		if err != nil {
			return err
		}
		if len(state.FS.Conflicts()) > before {
			metrics.RecordSizeConflict()
			r.logger.Warn("file listed again with a different size, keeping the first",
				zap.String("path", fs.FileAbsPath(state.FS, handle)),
				zap.Uint64("kept", state.FS.File(handle).Size),
				zap.Uint64("ignored", entry.Size),
			)
		}
		return nil
	default:
		return fmt.Errorf("unsupported entry kind %v", entry.Kind)
	}
}

// Replay parses and replays a transcript with a default Replayer.
func Replay(in io.Reader, opts ...Option) (*State, error) {
	return NewReplayer(opts...).Replay(in)
}
