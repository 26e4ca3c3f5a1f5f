package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/l1vm/lang/assembler"
	"github.com/mna/l1vm/lang/codegen"
	"github.com/mna/l1vm/lang/ident"
	"github.com/mna/l1vm/lang/parser"
	"github.com/mna/mainer"
)

// Exec parses, generates, assembles and runs each file in args in one step,
// the convenience path for spec section 8's end-to-end scenarios.
func (c *Cmd) Exec(ctx context.Context, stdio mainer.Stdio, args []string) error {
	for _, name := range args {
		src, err := os.ReadFile(name)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}

		names := ident.NewInterner()
		nodes, errs := parser.Parse(src, names)
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(stdio.Stderr, "%s: %s\n", name, e)
			}
			return errs[0]
		}

		sections, err := codegen.New(names).Generate(nodes)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", name, err)
			return err
		}

		prog, err := assembler.Assemble(sections)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", name, err)
			return err
		}

		if err := runProgram(ctx, stdio, prog); err != nil {
			return err
		}
	}
	return nil
}
