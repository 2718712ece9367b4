package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/symtab/internal/crosscheck"
	"github.com/Sumatoshi-tech/symtab/internal/tables"
	"github.com/Sumatoshi-tech/symtab/pkg/observability"
)

type verifyOptions struct {
	operations int
	keySpace   int
	seed       uint64
}

func (a *app) verifyCommand() *cobra.Command {
	var flags verifyOptions

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Cross-check the llrb table against the bst on random operations",
		Long: `Apply the same random sequence of adds and deletes to a bst and an llrb
table, checking both trees' invariants after every step and comparing every
query answer. The first disagreement is printed as a diff.`,
		Args: cobra.NoArgs,
	}

	cmd.RunE = a.run(observability.ModeVerify, func(ctx context.Context, cmd *cobra.Command, _ []string) error {
		opts := crosscheck.Options{
			Operations: a.cfg.Verify.Operations,
			KeySpace:   a.cfg.Verify.KeySpace,
			Seed:       a.cfg.Verify.Seed,
		}

		if cmd.Flags().Changed("operations") {
			opts.Operations = flags.operations
		}

		if cmd.Flags().Changed("key-space") {
			opts.KeySpace = flags.keySpace
		}

		if cmd.Flags().Changed("seed") {
			opts.Seed = flags.seed
		}

		return a.verify(ctx, cmd, opts)
	})

	cmd.Flags().IntVar(&flags.operations, "operations", 0, "number of random operations")
	cmd.Flags().IntVar(&flags.keySpace, "key-space", 0, "keys are drawn from [0, key-space)")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "operation sequence seed")

	return cmd
}

func (a *app) verify(ctx context.Context, cmd *cobra.Command, opts crosscheck.Options) error {
	reference, err := tables.New[int](tables.BST)
	if err != nil {
		return err
	}

	candidate, err := tables.New[int](tables.LLRB)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	res, err := crosscheck.Run(ctx, opts,
		crosscheck.Subject{Name: tables.BST, Table: reference},
		crosscheck.Subject{Name: tables.LLRB, Table: candidate},
		a.logger(),
	)

	var mismatch *crosscheck.MismatchError
	if errors.As(err, &mismatch) {
		a.paint(color.FgRed, color.Bold).Fprintf(out, "MISMATCH at step %d after %s\n", mismatch.Step, mismatch.Op)
		a.printDiff(cmd, mismatch.Diff)

		return err
	}

	if err != nil {
		return err
	}

	a.paint(color.FgGreen).Fprintf(out, "OK %s operations (%s adds, %s deletes, %s missed deletes)\n",
		humanize.Comma(int64(res.Operations)), humanize.Comma(int64(res.Adds)),
		humanize.Comma(int64(res.Deletes)), humanize.Comma(int64(res.Misses)))
	fmt.Fprintf(out, "final size %d, height %s %d, %s %d\n",
		res.Size, tables.BST, reference.Height(), tables.LLRB, candidate.Height())

	return nil
}

func (a *app) printDiff(cmd *cobra.Command, diff string) {
	out := cmd.OutOrStdout()
	removed := a.paint(color.FgRed)
	added := a.paint(color.FgGreen)

	for line := range strings.Lines(diff) {
		switch {
		case strings.HasPrefix(line, "-"):
			removed.Fprint(out, line)
		case strings.HasPrefix(line, "+"):
			added.Fprint(out, line)
		default:
			fmt.Fprint(out, line)
		}
	}
}
