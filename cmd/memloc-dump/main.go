// Command memloc-dump reads functions in textual IR form, enumerates the
// memory locations every function touches and prints the resulting vault
// with its counters. It exists to eyeball expansion behavior on small
// reproducers without wiring a whole pass.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirkon/message"
	"github.com/spf13/cobra"

	"github.com/sirkon/memloc"
	"github.com/sirkon/memloc/ir"
	"github.com/sirkon/memloc/ir/irparse"
	"github.com/sirkon/memloc/typeexp"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		message.Fatal(err)
	}
}

func newRootCommand() *cobra.Command {
	var (
		limitsPath string
		stopAtRO   bool
	)
	cmd := &cobra.Command{
		Use:          "memloc-dump <file.ir>",
		Short:        "Enumerate the memory locations of textual IR functions",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			limits := typeexp.DefaultLimits()
			if limitsPath != "" {
				data, err := os.ReadFile(limitsPath)
				if err != nil {
					return fmt.Errorf("read limits: %w", err)
				}
				limits, err = typeexp.LoadLimits(data)
				if err != nil {
					return err
				}
			}
			fns, err := irparse.ParseFile(args[0])
			if err != nil {
				return err
			}
			dump(cmd.OutOrStdout(), fns, limits, stopAtRO)
			return nil
		},
	}
	cmd.Flags().StringVarP(&limitsPath, "limits", "l", "", "YAML file with expansion limits")
	cmd.Flags().BoolVar(&stopAtRO, "stop-at-immutable", false, "treat immutable projections as location bases")
	return cmd
}

func dump(w io.Writer, fns []*ir.Function, limits typeexp.Limits, stopAtImmutable bool) {
	for i, fn := range fns {
		if i > 0 {
			fmt.Fprintln(w)
		}
		// A fresh expander per function keeps the capped counter local.
		e := typeexp.NewExpander(limits)
		vault := memloc.EnumerateLocations(fn, e, stopAtImmutable)
		fmt.Fprintf(w, "func @%s\n", fn.Name)
		for i := 0; i < vault.Len(); i++ {
			fmt.Fprintf(w, "  #%d %s\n", i, vault.At(i))
		}
		fmt.Fprintf(w, "  %s\n", memloc.CollectStats(vault, e))
	}
}
