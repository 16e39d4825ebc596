package engine

import (
	"sort"
	"unicode/utf8"
)

// runeIndex translates between byte offsets, which regexp reports, and
// character offsets, which results carry. ASCII text needs no table.
type runeIndex struct {
	n      int   // rune count
	starts []int // byte offset of each rune, plus len(text); nil for ASCII
}

func newRuneIndex(text string) runeIndex {
	ascii := true
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return runeIndex{n: len(text)}
	}
	starts := make([]int, 0, len(text)+1)
	for i := range text {
		starts = append(starts, i)
	}
	starts = append(starts, len(text))
	return runeIndex{n: len(starts) - 1, starts: starts}
}

func (x runeIndex) len() int { return x.n }

// toRune maps a byte offset on a rune boundary to its character offset.
func (x runeIndex) toRune(b int) int {
	if x.starts == nil {
		return b
	}
	return sort.SearchInts(x.starts, b)
}

// toByte maps a character offset in [0, len] to its byte offset.
func (x runeIndex) toByte(r int) int {
	if x.starts == nil {
		return r
	}
	return x.starts[r]
}
