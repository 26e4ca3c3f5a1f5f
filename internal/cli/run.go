package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mna/l1vm/lang/bytecode"
	"github.com/mna/l1vm/lang/vm"
	"github.com/mna/mainer"
	"gopkg.in/yaml.v3"
)

// Run reads a YAML-encoded bytecode program from stdin and executes it,
// with channel 0 bound to stdout: every value the program outputs is
// printed on its own line as it is produced.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := io.ReadAll(stdio.Stdin)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	var prog bytecode.Program
	if err := yaml.Unmarshal(src, &prog); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	return runProgram(ctx, stdio, &prog)
}

// runProgram drains the machine's channel 0 into stdio.Stdout concurrently
// with execution, so output interleaves with a long-running program instead
// of only appearing after it halts.
func runProgram(ctx context.Context, stdio mainer.Stdio, prog *bytecode.Program) error {
	ch := make(chan int64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for v := range ch {
			fmt.Fprintln(stdio.Stdout, v)
		}
	}()

	m := vm.New(prog)
	m.Channels = []chan<- int64{ch}
	_, err := m.Run(ctx)
	close(ch)
	<-done

	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
	}
	return err
}
