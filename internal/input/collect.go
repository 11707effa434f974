package input

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// Entry is one collected modulus and where it came from.
type Entry struct {
	Source string
	Line   int
	Value  *big.Int
}

// Collect gathers moduli in order: positional args first ("-" reads stdin),
// then every file matched by each glob pattern. Files hold one value per line;
// blank lines and lines starting with '#' are skipped. The first malformed
// value aborts collection with its location.
func Collect(args, patterns []string, stdin io.Reader) ([]Entry, error) {
	var out []Entry
	for i, a := range args {
		if a == "-" {
			es, err := readLines("<stdin>", stdin)
			if err != nil {
				return nil, err
			}
			out = append(out, es...)
			continue
		}
		n, err := ParseModulus(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out = append(out, Entry{Source: "<arg>", Line: i + 1, Value: n})
	}
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("input pattern %q matched no files", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			es, err := readFile(m)
			if err != nil {
				return nil, err
			}
			out = append(out, es...)
		}
	}
	return out, nil
}

func readFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLines(path, f)
}

func readLines(source string, r io.Reader) ([]Entry, error) {
	var out []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		n, err := ParseModulus(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, line, err)
		}
		out = append(out, Entry{Source: source, Line: line, Value: n})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return out, nil
}

// Values returns the moduli of es in order.
func Values(es []Entry) []*big.Int {
	out := make([]*big.Int, len(es))
	for i, e := range es {
		out[i] = e.Value
	}
	return out
}
