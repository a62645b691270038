package main

import "errors"

var (
	// ErrInvalidArguments is an error that occurs when the command line
	// does not carry the arguments a selected mode requires.
	ErrInvalidArguments = errors.New("invalid arguments")
)
