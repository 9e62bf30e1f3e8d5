package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errAborted = errors.New("stopped by user, nothing renamed")

// confirm asks until the user answers Y or N. End of input counts as N.
func confirm(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Press 'Y' to apply the new names or 'N' to stop: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return errAborted
		}

		switch strings.ToUpper(strings.TrimSpace(scanner.Text())) {
		case "Y":
			return nil
		case "N":
			return errAborted
		default:
			fmt.Fprintln(out, "Invalid input. Please press 'Y' to continue or 'N' to stop.")
		}
	}
}
