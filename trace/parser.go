package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const (
	// CommentPrefix marks a line the parser skips entirely.
	CommentPrefix = "#"

	// Scanner buffer sizing. Scripts are line-oriented and short, but a
	// generator writing one giant comment line should not kill the parse.
	initialScanBufferSize = 64 * 1024
	maxScanLineSize       = 1024 * 1024
)

// ParseFile reads and parses the script at path. The script's Name is set
// to the base name of the file.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: opening script: %w", err)
	}
	defer f.Close()

	script, err := Parse(f)
	if err != nil {
		return nil, err
	}
	script.Name = filepath.Base(path)
	return script, nil
}

// Parse reads a script from r. Input is decoded as Windows-1252, which
// passes ASCII through unchanged and keeps high-byte comment text from
// breaking the scan. Parsing stops at the first malformed directive.
func Parse(r io.Reader) (*Script, error) {
	decoder := charmap.Windows1252.NewDecoder()
	utf8Reader := transform.NewReader(r, decoder)

	scanner := bufio.NewScanner(utf8Reader)
	buf := make([]byte, 0, initialScanBufferSize)
	scanner.Buffer(buf, maxScanLineSize)

	script := &Script{}
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}

		op, err := parseDirective(line)
		if err != nil {
			return nil, fmt.Errorf("trace: line %d: %w", lineNum, err)
		}
		script.Ops = append(script.Ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("trace: scanning script: %w", err)
	}
	return script, nil
}

func parseDirective(line string) (Op, error) {
	fields := strings.Fields(line)
	if len(fields[0]) != 1 {
		return Op{}, fmt.Errorf("unknown directive %q", fields[0])
	}

	op := Op{Kind: OpKind(fields[0][0])}
	switch op.Kind {
	case OpAlloc, OpRealloc:
		if len(fields) != 3 {
			return Op{}, fmt.Errorf("directive %q takes an id and a size", fields[0])
		}
		id, err := parseField(fields[1], "id")
		if err != nil {
			return Op{}, err
		}
		size, err := parseField(fields[2], "size")
		if err != nil {
			return Op{}, err
		}
		op.ID, op.Size = id, size

	case OpFree:
		if len(fields) != 2 {
			return Op{}, fmt.Errorf("directive %q takes an id", fields[0])
		}
		id, err := parseField(fields[1], "id")
		if err != nil {
			return Op{}, err
		}
		op.ID = id

	default:
		return Op{}, fmt.Errorf("unknown directive %q", fields[0])
	}
	return op, nil
}

func parseField(tok, name string) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q", name, tok)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s %d is negative", name, v)
	}
	return v, nil
}
