package ignore

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// Append adds each pattern to the ignore file in root unless it is already
// listed, creating the file if needed. It returns the patterns it wrote.
func Append(root string, patterns ...string) ([]string, error) {
	path := filepath.Join(root, FileName)
	existing := map[string]bool{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		existing[strings.TrimSpace(sc.Text())] = true
	}

	var buf strings.Builder
	if len(data) > 0 && data[len(data)-1] != '\n' {
		buf.WriteByte('\n')
	}
	var added []string
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" || existing[p] {
			continue
		}
		existing[p] = true
		added = append(added, p)
		buf.WriteString(p + "\n")
	}
	if len(added) == 0 {
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, err := f.WriteString(buf.String()); err != nil {
		return nil, err
	}
	return added, nil
}
