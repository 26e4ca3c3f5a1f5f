package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/l1vm/lang/scanner"
	"github.com/mna/l1vm/lang/token"
	"github.com/mna/mainer"
)

// Tokenize scans each file in args and prints one line per token.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(stdio, args...)
}

// TokenizeFiles is the reusable body of Tokenize, split out so tests can
// call it directly without going through the reflection-dispatched Cmd.
func TokenizeFiles(stdio mainer.Stdio, files ...string) error {
	for _, name := range files {
		src, err := os.ReadFile(name)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}

		var scanErrs []error
		s := scanner.New(src, func(pos token.Pos, msg string) {
			scanErrs = append(scanErrs, fmt.Errorf("%s:%s: %s", name, pos, msg))
		})
		for {
			v := s.Scan()
			fmt.Fprintf(stdio.Stdout, "%s:%s: %s", name, v.Pos, v.Tok)
			if v.Lit != "" {
				fmt.Fprintf(stdio.Stdout, " %s", v.Lit)
			}
			fmt.Fprintln(stdio.Stdout)
			if v.Tok == token.EOF {
				break
			}
		}
		for _, e := range scanErrs {
			fmt.Fprintln(stdio.Stderr, e)
		}
		if len(scanErrs) > 0 {
			return scanErrs[0]
		}
	}
	return nil
}
