package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mna/l1vm/lang/asm"
	"github.com/mna/l1vm/lang/assembler"
	"github.com/mna/mainer"
	"gopkg.in/yaml.v3"
)

// Assemble reads textual assembly from stdin, assembles it, and writes the
// resulting bytecode program as YAML to stdout.
func (c *Cmd) Assemble(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := io.ReadAll(stdio.Stdin)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	sections, err := asm.Parse(src)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	prog, err := assembler.Assemble(sections)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	out, err := yaml.Marshal(prog)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	stdio.Stdout.Write(out)
	return nil
}
