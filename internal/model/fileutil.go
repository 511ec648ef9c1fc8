package model

import (
	"bufio"
	"fmt"
	"os"
)

// contextLines is how many lines are kept on each side of the target.
const contextLines = 2

// LineContext is a transcript line with the lines around it, used to show
// where a parse error happened.
type LineContext struct {
	Before     []string
	Target     string
	After      []string
	LineNumber int
	ErrorMsg   string // set when the file could not be read
}

// GetLineContext reads filePath and returns line lineNumber (1-based) with
// up to two lines of context on each side.
func GetLineContext(filePath string, lineNumber int) LineContext {
	result := LineContext{LineNumber: lineNumber}

	file, err := os.Open(filePath)
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Could not read file: %v", err)
		return result
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	current := 0
	found := false
	for scanner.Scan() {
		current++
		switch {
		case current < lineNumber-contextLines:
			continue
		case current < lineNumber:
			result.Before = append(result.Before, scanner.Text())
		case current == lineNumber:
			result.Target = scanner.Text()
			found = true
		case current <= lineNumber+contextLines:
			result.After = append(result.After, scanner.Text())
		}
		if found && current >= lineNumber+contextLines {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		result.ErrorMsg = fmt.Sprintf("Error reading file: %v", err)
		return result
	}
	if lineNumber < 1 || !found {
		result.Before = nil
		result.After = nil
		result.ErrorMsg = fmt.Sprintf("Line %d out of range (file has %d lines)", lineNumber, current)
	}
	return result
}
