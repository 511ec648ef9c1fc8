// Package session parses shell transcripts of `cd` and `ls` commands and
// replays them into a filesystem store.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	changeDirectoryRe = regexp.MustCompile(`^cd[ \t]+(/|\.\.|[A-Za-z0-9]+)$`)
	fileEntryRe       = regexp.MustCompile(`^([0-9]+)[ \t]+(.+)$`)
	directoryEntryRe  = regexp.MustCompile(`^dir[ \t]+(.+)$`)
)

var errNoMatch = errors.New("no match")

// ParseError reports a transcript line that does not fit the session
// grammar.
type ParseError struct {
	Line   int    // 1-based line number
	Offset int64  // byte offset of the start of the line
	Text   string // the offending line
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d (offset %d): %s: %q", e.Line, e.Offset, e.Msg, e.Text)
}

type rawLine struct {
	text   string
	number int
	offset int64
}

// Parser reads commands from a transcript one at a time.
type Parser struct {
	scanner  *bufio.Scanner
	lines    int
	consumed int64
	start    int64
	pending  *rawLine
}

// NewParser creates a Parser reading from r.
func NewParser(r io.Reader) *Parser {
	p := &Parser{scanner: bufio.NewScanner(r)}
	// Listings of very long names are still single lines
	buf := make([]byte, 0, 64*1024)
	p.scanner.Buffer(buf, 1024*1024)
	p.scanner.Split(p.split)
	return p
}

// split wraps bufio.ScanLines to track the byte offset of each line.
func (p *Parser) split(data []byte, atEOF bool) (int, []byte, error) {
	advance, token, err := bufio.ScanLines(data, atEOF)
	if advance > 0 {
		p.start = p.consumed
		p.consumed += int64(advance)
	}
	return advance, token, err
}

func (p *Parser) peek() (rawLine, bool) {
	if p.pending != nil {
		return *p.pending, true
	}
	if !p.scanner.Scan() {
		return rawLine{}, false
	}
	p.lines++
	p.pending = &rawLine{
		text:   p.scanner.Text(),
		number: p.lines,
		offset: p.start,
	}
	return *p.pending, true
}

func (p *Parser) next() (rawLine, bool) {
	line, ok := p.peek()
	p.pending = nil
	return line, ok
}

func (p *Parser) end() error {
	if err := p.scanner.Err(); err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}
	return io.EOF
}

func newParseError(line rawLine, msg string) *ParseError {
	return &ParseError{
		Line:   line.number,
		Offset: line.offset,
		Text:   line.text,
		Msg:    msg,
	}
}

// Next returns the next command. It returns io.EOF once the transcript is
// exhausted, and a *ParseError for a line outside the grammar.
func (p *Parser) Next() (Command, error) {
	for {
		line, ok := p.next()
		if !ok {
			return nil, p.end()
		}
		if isBlank(line.text) {
			continue
		}

		text, ok := recognizePrompt(line.text)
		if !ok {
			return nil, newParseError(line, "expected command prompt")
		}
		if path, ok := recognizeChangeDirectory(text); ok {
			return ChangeDirectory{Path: path, Line: line.number}, nil
		}
		if recognizeList(text) {
			return p.listing(line)
		}
		return nil, newParseError(line, "unknown command")
	}
}

// listing collects entries up to the next prompt, blank line or end of
// input.
func (p *Parser) listing(prompt rawLine) (Command, error) {
	list := List{Line: prompt.number}
	for {
		line, ok := p.peek()
		if !ok || isBlank(line.text) {
			break
		}
		if _, isPrompt := recognizePrompt(line.text); isPrompt {
			break
		}
		p.next()

		entry, err := recognizeListEntry(line.text)
		if err != nil {
			return nil, newParseError(line, err.Error())
		}
		list.Entries = append(list.Entries, entry)
	}
	if err := p.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return list, nil
}

// ParseAll reads every command of the transcript.
func (p *Parser) ParseAll() ([]Command, error) {
	var commands []Command
	for {
		cmd, err := p.Next()
		if errors.Is(err, io.EOF) {
			return commands, nil
		}
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// recognizePrompt strips leading whitespace and the prompt, returning the
// command text.
func recognizePrompt(line string) (string, bool) {
	return strings.CutPrefix(strings.TrimLeft(line, " \t"), Prompt)
}

// recognizeChangeDirectory matches `cd PATH` where PATH is "/", ".." or an
// alphanumeric name.
func recognizeChangeDirectory(text string) (string, bool) {
	m := changeDirectoryRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// recognizeList matches a bare `ls`.
func recognizeList(text string) bool {
	return text == "ls"
}

// recognizeFileEntry matches `SIZE NAME`.
func recognizeFileEntry(line string) (ListEntry, error) {
	m := fileEntryRe.FindStringSubmatch(line)
	if m == nil {
		return ListEntry{}, errNoMatch
	}
	size, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return ListEntry{}, fmt.Errorf("file size %s: %w", m[1], err)
	}
	return ListEntry{Kind: EntryFile, Name: m[2], Size: size}, nil
}

// recognizeDirectoryEntry matches `dir NAME`.
func recognizeDirectoryEntry(line string) (ListEntry, error) {
	m := directoryEntryRe.FindStringSubmatch(line)
	if m == nil {
		return ListEntry{}, errNoMatch
	}
	return ListEntry{Kind: EntryDirectory, Name: m[1]}, nil
}

// recognizeListEntry matches a file or directory line. A line starting
// with a digit can only be a file.
func recognizeListEntry(line string) (ListEntry, error) {
	if line != "" && line[0] >= '0' && line[0] <= '9' {
		entry, err := recognizeFileEntry(line)
		if errors.Is(err, errNoMatch) {
			return ListEntry{}, errors.New("malformed file entry")
		}
		return entry, err
	}
	entry, err := recognizeDirectoryEntry(line)
	if errors.Is(err, errNoMatch) {
		return ListEntry{}, errors.New("expected listing entry")
	}
	return entry, err
}
