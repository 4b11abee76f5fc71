package repl

import "github.com/ardnew/sxhtml/lang"

// Sentinel errors.
var (
	ErrREPL           = lang.NewError("repl error")
	ErrOutOfBounds    = ErrREPL.Derive("index out of range")
	ErrUnknownCommand = ErrREPL.Derive("unknown command")
	ErrUsage          = ErrREPL.Derive("invalid command usage")
)
