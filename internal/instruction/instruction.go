// Package instruction parses the short caller-supplied strings that drive
// the canvas: the first character selects a command, the remainder carries
// its parameters.
package instruction

import "strconv"

// Kind enumerates the commands a client can issue.
type Kind int

const (
	// Invalid covers empty instructions, unknown mode letters, and
	// malformed parameters. It is a valid outcome, not an error.
	Invalid Kind = iota
	// Write appends, deletes, or clears via a single letter parameter.
	Write
	// Generate asks for an image generated from the accumulated sentence.
	Generate
	// SetChannel rebinds the client to a numbered canvas.
	SetChannel
)

// Command is the typed result of parsing one instruction.
type Command struct {
	Kind    Kind
	Letter  byte // set for Write
	Channel int  // set for SetChannel
}

// Parse interprets raw as a command. It is total over any input: malformed
// instructions come back as Invalid and nothing panics.
//
//	"g"      -> Generate (no parameters accepted)
//	"w" + c  -> Write(c), exactly one parameter character
//	"c" + n  -> SetChannel(n), remainder must parse as an integer
func Parse(raw string) Command {
	if raw == "" {
		return Command{Kind: Invalid}
	}
	mode, params := raw[0], raw[1:]
	switch mode {
	case 'g':
		if params != "" {
			return Command{Kind: Invalid}
		}
		return Command{Kind: Generate}
	case 'w':
		if len(params) != 1 {
			return Command{Kind: Invalid}
		}
		return Command{Kind: Write, Letter: params[0]}
	case 'c':
		ch, err := strconv.Atoi(params)
		if err != nil {
			return Command{Kind: Invalid}
		}
		return Command{Kind: SetChannel, Channel: ch}
	}
	return Command{Kind: Invalid}
}
