// rwcheck loads a fixture, runs the subject-reduction checker over every
// rule it declares, compiles each definable symbol's decision tree, and
// optionally writes its Graphviz rendering. Flag handling follows
// cmd/funxy/main.go's plain os.Args dispatch rather than a flags package.
package main

import (
	"fmt"
	"os"

	"github.com/lambdapi-go/rwcore/internal/diag"
	"github.com/lambdapi-go/rwcore/internal/dtree"
	"github.com/lambdapi-go/rwcore/internal/fixture"
	"github.com/lambdapi-go/rwcore/internal/matrix"
	"github.com/lambdapi-go/rwcore/internal/oracle"
	"github.com/lambdapi-go/rwcore/internal/rulecheck"
	"github.com/lambdapi-go/rwcore/internal/term"
	"github.com/mattn/go-isatty"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <fixture.yaml> [-dot <dir>]\n", os.Args[0])
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	fixturePath := os.Args[1]
	dotDir := ""
	for i := 2; i < len(os.Args)-1; i++ {
		if os.Args[i] == "-dot" {
			dotDir = os.Args[i+1]
		}
	}

	doc, err := fixture.Load(fixturePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	o := oracle.NewReference()
	builtins := oracle.Context{}

	exitCode := 0
	for _, sym := range doc.Order {
		rules := doc.Rules[sym.Name]
		if len(rules) == 0 {
			continue
		}
		for i, rule := range rules {
			result := checkAndCommit(builtins, o, sym, rule)
			printResult(sym.Name, i, result, color)
			if !result.Accepted {
				exitCode = 1
			}
		}
		if sym.Tag == term.Definable && len(sym.Rules) > 0 {
			m := matrix.OfRules(sym.Rules)
			tree := dtree.Compile(m)
			sym.Tree = tree
			if dotDir != "" {
				if err := writeDot(dotDir, sym.Name, tree); err != nil {
					fmt.Fprintln(os.Stderr, err)
					exitCode = 1
				}
			}
		}
	}
	os.Exit(exitCode)
}

// checkAndCommit runs the checker and, on acceptance, appends the rule to
// the symbol's rule list — the happens-before ordering AddRule's doc comment
// requires, so later rules never see an earlier one before it is accepted.
func checkAndCommit(builtins oracle.Context, o oracle.Oracle, sym *term.Symbol, rule *term.Rule) diag.Result {
	result := rulecheck.CheckRule(builtins, o, sym, rule)
	if result.Accepted {
		sym.AddRule(rule)
	}
	return result
}

func printResult(symName string, idx int, result diag.Result, color bool) {
	status := "accepted"
	prefix, suffix := "", ""
	if !result.Accepted {
		status = "rejected"
		if color {
			prefix, suffix = "\x1b[31m", "\x1b[0m"
		}
	} else if len(result.Diagnostics) > 0 && color {
		prefix, suffix = "\x1b[33m", "\x1b[0m"
	}
	fmt.Printf("%s%s rule %d: %s%s\n", prefix, symName, idx, status, suffix)
	for _, d := range result.Diagnostics {
		fmt.Printf("  %s\n", d.Error())
	}
}

func writeDot(dir, symName string, tree *dtree.Tree) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(dir + "/" + symName + ".dot")
	if err != nil {
		return err
	}
	defer f.Close()
	return dtree.ToDot(f, tree)
}
