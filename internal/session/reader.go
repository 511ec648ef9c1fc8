package session

import (
	"fmt"
	"os"
)

// DefaultInputPath is where puzzle inputs are conventionally stored.
const DefaultInputPath = "input/day7.txt"

// ReplayFile opens the transcript at path and replays it. The file is
// closed before returning on every path.
func ReplayFile(path string, opts ...Option) (*State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	state, err := Replay(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return state, nil
}
