// Package sentence implements the per-client text buffer edit policy.
package sentence

import "strings"

// Alphabet lists every character a sentence may contain.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789 ,"

const (
	// Backspace drops the last character of the sentence.
	Backspace = '-'
	// Clear resets the sentence to empty.
	Clear = '!'
)

// Apply performs a single letter edit and returns the new sentence. Letters
// outside the alphabet that are neither Backspace nor Clear leave the
// sentence untouched; the function never fails.
func Apply(sentence string, letter byte) string {
	switch {
	case letter == Backspace:
		if sentence == "" {
			return ""
		}
		return sentence[:len(sentence)-1]
	case letter == Clear:
		return ""
	case strings.IndexByte(Alphabet, letter) >= 0:
		return sentence + string(letter)
	}
	return sentence
}
