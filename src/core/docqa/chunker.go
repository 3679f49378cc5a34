package docqa

import "iter"

// Chunks returns a lazy, restartable sequence of sliding-window segments
// over text. The window advances by size-overlap each step, so consecutive
// segments share overlap characters. Every segment has length exactly size
// except possibly the last, which may be shorter. Empty text yields an empty
// sequence. Preconditions: size > 0 and 0 <= overlap < size.
func Chunks(text string, size, overlap int) iter.Seq[string] {
	return func(yield func(string) bool) {
		if text == "" || size <= 0 || overlap < 0 || overlap >= size {
			return
		}
		step := size - overlap
		for start := 0; ; start += step {
			end := start + size
			if end >= len(text) {
				yield(text[start:])
				return
			}
			if !yield(text[start:end]) {
				return
			}
		}
	}
}

// SplitText materializes Chunks into a slice.
func SplitText(text string, size, overlap int) []string {
	var out []string
	for chunk := range Chunks(text, size, overlap) {
		out = append(out, chunk)
	}
	return out
}
