package obj

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Simplify copies an OBJ stream keeping only vertex positions and the
// first three vertex references of each face, dropping texture and normal
// references, materials, groups and comments.
func Simplify(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	out := bufio.NewWriter(w)

	var lines []string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "v "):
			lines = append(lines, line)
		case strings.HasPrefix(line, "f "):
			fields := strings.Fields(line)[1:]
			if len(fields) < 3 {
				return fmt.Errorf("line %d: %w: need 3 corners", lineNo, ErrInvalidFace)
			}
			var refs [3]string
			for i := range refs {
				refs[i], _, _ = strings.Cut(fields[i], "/")
			}
			lines = append(lines, fmt.Sprintf("f %s %s %s", refs[0], refs[1], refs[2]))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read obj: %w", err)
	}

	if _, err := out.WriteString(strings.Join(lines, "\n")); err != nil {
		return err
	}
	return out.Flush()
}
