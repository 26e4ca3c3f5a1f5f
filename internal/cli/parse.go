package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/l1vm/lang/ident"
	"github.com/mna/l1vm/lang/parser"
	"github.com/mna/mainer"
)

// Parse parses each file in args and prints its AST.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(stdio, args...)
}

func ParseFiles(stdio mainer.Stdio, files ...string) error {
	for _, name := range files {
		src, err := os.ReadFile(name)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}

		names := ident.NewInterner()
		nodes, errs := parser.Parse(src, names)
		printNodes(stdio.Stdout, names, nodes)
		for _, e := range errs {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", name, e)
		}
		if len(errs) > 0 {
			return errs[0]
		}
	}
	return nil
}
