package command

import (
	"fmt"
	"unicode/utf8"
)

// MaxMessageLen bounds the length of a single reply.
const MaxMessageLen = 3000

// pageHeaderLen reserves room for the " (xx/xx): " page counter.
const pageHeaderLen = len(" (xx/xx): ")

// SplitByMaxLen joins items with ", " into as few messages as possible, each
// no longer than maxLen runes once prefixed with "<prefix> (i/n): ".
func SplitByMaxLen(prefix string, items []string, maxLen int) []string {
	if len(items) == 0 {
		return nil
	}

	budget := maxLen - utf8.RuneCountInString(prefix) - pageHeaderLen

	var (
		bodies []string
		cur    = items[0]
		curLen = utf8.RuneCountInString(items[0])
	)
	for _, item := range items[1:] {
		n := utf8.RuneCountInString(item)
		if curLen+len(", ")+n > budget {
			bodies = append(bodies, cur)
			cur, curLen = item, n
			continue
		}
		cur += ", " + item
		curLen += len(", ") + n
	}
	bodies = append(bodies, cur)

	out := make([]string, len(bodies))
	for i, body := range bodies {
		out[i] = fmt.Sprintf("%s (%d/%d): %s", prefix, i+1, len(bodies), body)
	}
	return out
}
