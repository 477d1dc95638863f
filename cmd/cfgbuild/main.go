package main

import (
	"context"
	"fmt"
	"os"

	"github.com/glint-lang/cfgbuild/ast"
	"github.com/glint-lang/cfgbuild/cfgtext"
	"github.com/glint-lang/cfgbuild/diag"
	"github.com/glint-lang/cfgbuild/symbols"
	"github.com/glint-lang/cfgbuild/walk"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

// The builder's actual input is a resolved ast.Node handed to it by a
// namer/resolver this repository doesn't implement. Lacking a front end
// to point at real source files, these subcommands
// exercise the pipeline end to end against a small built-in fixture
// instead of a file argument — enough to sanity-check a build the way
// `slow parse`/`slow compile` sanity-check theirs.
func main() {
	smokeCmd := &cli.Command{
		Name:        "smoke",
		Description: "build the fixture method and print its cfg",
		Action:      smokeAct,
	}

	verifyCmd := &cli.Command{
		Name:        "verify",
		Description: "build the fixture method and check its invariants",
		Action:      verifyAct,
	}

	app := &cli.Command{
		Name:        "cfgbuild",
		Description: "cfgbuild builds and inspects control-flow graphs",
		Commands: []*cli.Command{
			smokeCmd,
			verifyCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

// fixtureMethod returns `a = if cond; 1; else; 2; end`, exercising Assign,
// If, and Literal together.
func fixtureMethod(table *symbols.Table) ast.Node {
	aRef := table.NewLocalRef("a")
	condRef := table.NewLocalRef("cond")

	return ast.Assign{
		LHS: ast.Local{Var: aRef},
		RHS: ast.If{
			Cond: ast.Local{Var: condRef},
			Then: ast.Literal{Value: symbols.LiteralValue{Kind: symbols.LiteralInt, Int: 1}},
			Else: ast.Literal{Value: symbols.LiteralValue{Kind: symbols.LiteralInt, Int: 2}},
		},
	}
}

func smokeAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	table := symbols.NewTable()
	sink := &diag.Collector{}

	built, err := walk.BuildMethod(ctx, table, sink, symbols.Symbol{}, fixtureMethod(table))
	if err != nil {
		return errors.Wrap(err, "build")
	}

	out, err := cfgtext.Dump(ctx, table, built)
	if err != nil {
		return errors.Wrap(err, "dump")
	}

	for _, d := range sink.Diagnostics {
		fmt.Fprintf(os.Stderr, "%s: %s\n", d.Kind, d.Header)
	}

	fmt.Print(string(out))

	return nil
}

func verifyAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	table := symbols.NewTable()
	sink := &diag.Collector{}

	built, err := walk.BuildMethod(ctx, table, sink, symbols.Symbol{}, fixtureMethod(table))
	if err != nil {
		return errors.Wrap(err, "build")
	}

	if err := built.CheckInvariants(); err != nil {
		return errors.Wrap(err, "invariants")
	}

	fmt.Printf("ok: %d blocks\n", len(built.Blocks))

	return nil
}
