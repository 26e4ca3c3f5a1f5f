package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/l1vm/lang/asm"
	"github.com/mna/l1vm/lang/codegen"
	"github.com/mna/l1vm/lang/ident"
	"github.com/mna/l1vm/lang/parser"
	"github.com/mna/mainer"
)

// Compile parses each file in args, generates assembly, and prints its
// textual form.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CompileFiles(stdio, args...)
}

func CompileFiles(stdio mainer.Stdio, files ...string) error {
	for _, name := range files {
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

		text, err := asm.Print(sections)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", name, err)
			return err
		}
		stdio.Stdout.Write(text)
	}
	return nil
}
