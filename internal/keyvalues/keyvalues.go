// SPDX-License-Identifier: MPL-2.0

// Package keyvalues decodes the nested quoted key/value text format used by
// Steam's application manifest files (.acf). The format is line oriented:
// a line holds either a single quoted key, a key/value pair separated by
// whitespace, or a brace opening/closing the block bound to the preceding
// bare key.
package keyvalues

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed indicates that the input is not a well-formed key/value
// document (unbalanced braces, a block without a key, or a dangling key).
var ErrMalformed = errors.New("malformed key/value document")

type (
	// Node is one mapping in the decoded tree. Leaf entries live in Values,
	// nested blocks in Children. A freshly decoded tree is owned by the
	// caller; the decoder never retains or mutates it afterwards.
	Node struct {
		Values   map[string]string
		Children map[string]*Node
	}

	// decoder tracks the explicit stack of in-progress nodes. Depth is
	// bounded by the stack, not by recursion, so malformed input fails with
	// a checked error instead of exhausting the call stack.
	decoder struct {
		current *Node
		stack   []*Node

		pendingKey string
		hasPending bool
	}
)

func newNode() *Node {
	return &Node{
		Values:   make(map[string]string),
		Children: make(map[string]*Node),
	}
}

// Decode parses text into a tree of nodes. The returned root holds the
// document's top-level keys (for an appworkshop manifest, the single
// "AppWorkshop" child).
func Decode(text string) (*Node, error) {
	d := &decoder{current: newNode()}
	root := d.current

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := d.consume(line, lineNo); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read key/value input: %w", err)
	}

	if len(d.stack) > 0 {
		return nil, fmt.Errorf("line %d: %d unclosed block(s): %w", lineNo, len(d.stack), ErrMalformed)
	}
	if d.hasPending {
		return nil, fmt.Errorf("line %d: key %q has no value or block: %w", lineNo, d.pendingKey, ErrMalformed)
	}

	return root, nil
}

// consume processes one trimmed non-empty line.
func (d *decoder) consume(line string, lineNo int) error {
	switch line {
	case "{":
		if !d.hasPending {
			return fmt.Errorf("line %d: block opened without a key: %w", lineNo, ErrMalformed)
		}
		child := newNode()
		d.current.Children[d.pendingKey] = child
		d.stack = append(d.stack, d.current)
		d.current = child
		d.hasPending = false
		return nil

	case "}":
		if d.hasPending {
			return fmt.Errorf("line %d: key %q has no value or block: %w", lineNo, d.pendingKey, ErrMalformed)
		}
		if len(d.stack) == 0 {
			return fmt.Errorf("line %d: unexpected '}': %w", lineNo, ErrMalformed)
		}
		d.current = d.stack[len(d.stack)-1]
		d.stack = d.stack[:len(d.stack)-1]
		return nil
	}

	tokens, err := splitTokens(line)
	if err != nil {
		return fmt.Errorf("line %d: %v: %w", lineNo, err, ErrMalformed)
	}
	switch len(tokens) {
	case 1:
		if d.hasPending {
			return fmt.Errorf("line %d: key %q has no value or block: %w", lineNo, d.pendingKey, ErrMalformed)
		}
		d.pendingKey = tokens[0]
		d.hasPending = true
	case 2:
		if d.hasPending {
			return fmt.Errorf("line %d: key %q has no value or block: %w", lineNo, d.pendingKey, ErrMalformed)
		}
		d.current.Values[tokens[0]] = tokens[1]
	default:
		return fmt.Errorf("line %d: expected key or key/value pair, got %d tokens: %w", lineNo, len(tokens), ErrMalformed)
	}
	return nil
}

// splitTokens extracts quoted (or bare) tokens from a line. Quote characters
// surrounding a token are stripped; \" and \\ escapes inside quoted tokens
// are honored.
func splitTokens(line string) ([]string, error) {
	var tokens []string
	i := 0
	for i < len(line) {
		switch line[i] {
		case ' ', '\t':
			i++
		case '"':
			var sb strings.Builder
			i++
			closed := false
			for i < len(line) {
				c := line[i]
				if c == '\\' && i+1 < len(line) {
					sb.WriteByte(line[i+1])
					i += 2
					continue
				}
				if c == '"' {
					closed = true
					i++
					break
				}
				sb.WriteByte(c)
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated quote")
			}
			tokens = append(tokens, sb.String())
		default:
			start := i
			for i < len(line) && line[i] != ' ' && line[i] != '\t' {
				i++
			}
			tokens = append(tokens, line[start:i])
		}
	}
	return tokens, nil
}

// Child returns the named nested block, or nil.
func (n *Node) Child(key string) *Node {
	if n == nil {
		return nil
	}
	return n.Children[key]
}

// Value returns the named leaf value.
func (n *Node) Value(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	v, ok := n.Values[key]
	return v, ok
}

// Lookup descends through nested blocks along path. It returns nil as soon
// as any segment is missing, so callers can chain it with Value.
func (n *Node) Lookup(path ...string) *Node {
	cur := n
	for _, key := range path {
		cur = cur.Child(key)
		if cur == nil {
			return nil
		}
	}
	return cur
}
