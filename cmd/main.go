package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"go.symdiff.dev/pkg"
)

const historyFile = ".symdiff_history"

const helpText = `Enter a definition such as "f(x) = sin(pi*x)^2" or a bare expression.
  :d <var>        differentiate the current function
  :s              simplify the current function
  :at <values>    evaluate the current function
  :latex          print the current function as LaTeX
  :yaml           print the current function as YAML
  :llvm           print the current function as LLVM IR
  :quit           leave
`

func main() {
	interactive := flag.Bool("i", false, "start an interactive session")
	format := flag.String("format", "text", "demo output: text, latex, yaml or llvm")
	maxDepth := flag.Int("max-depth", symdiff.DefaultMaxDepth, "maximum bracket nesting")
	maxTreeDepth := flag.Int("max-tree-depth", symdiff.DefaultMaxTreeDepth, "maximum operator nesting")
	flag.Parse()

	cfg := symdiff.DefaultConfig()
	cfg.MaxDepth = *maxDepth
	cfg.MaxTreeDepth = *maxTreeDepth
	in := symdiff.NewInterpreter(cfg)

	if *interactive {
		os.Exit(runREPL(in))
	}

	if err := runDemo(in, *format); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func runDemo(in *symdiff.Interpreter, format string) error {
	product, err := in.Parse("", "4*7")
	if err != nil {
		return err
	}

	v, err := product.Evaluate(nil)
	if err != nil {
		return err
	}
	fmt.Println(product, "=", symdiff.FormatValue(v))

	f, err := in.Parse("f", "sin(pi*x)^2", "x")
	if err != nil {
		return err
	}

	at, err := f.At(0.25)
	if err != nil {
		return err
	}
	fmt.Println(at)

	d, err := f.Differentiate("x")
	if err != nil {
		return err
	}

	s, err := d.Simplify()
	if err != nil {
		return err
	}

	g, err := in.Parse("g", "ln(x) + (x^4)", "x")
	if err != nil {
		return err
	}

	for _, fn := range []*symdiff.Function{f, d, s, g} {
		if err := show(fn, format); err != nil {
			return err
		}
	}

	return nil
}

func show(f *symdiff.Function, format string) error {
	switch format {
	case "text":
		fmt.Println(f)
	case "latex":
		fmt.Println(symdiff.LaTeX(f.Root))
	case "yaml":
		data, err := symdiff.MarshalFunction(f)
		if err != nil {
			return err
		}

		fmt.Print(string(data))
	case "llvm":
		mod, err := symdiff.Lower(f)
		if err != nil {
			return err
		}

		fmt.Print(mod)
	default:
		return errors.Errorf("unknown format %q", format)
	}

	return nil
}

func runREPL(in *symdiff.Interpreter) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	var current *symdiff.Function
	for {
		line, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}

		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if line == ":quit" || line == ":exit" {
			break
		}

		next, err := handleLine(in, current, line)
		if err != nil {
			printError(err)
			continue
		}

		if next != nil {
			current = next
			fmt.Println(current)
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}

	return 0
}

// handleLine runs one command and returns the new current function, or nil
// if it is unchanged.
func handleLine(in *symdiff.Interpreter, current *symdiff.Function, line string) (*symdiff.Function, error) {
	if !strings.HasPrefix(line, ":") {
		return define(in, line)
	}

	fields := strings.Fields(line)
	if fields[0] == ":help" {
		fmt.Print(helpText)
		return nil, nil
	}

	if current == nil {
		return nil, errors.New("no function defined")
	}

	switch fields[0] {
	case ":d":
		if len(fields) != 2 {
			return nil, errors.New("usage: :d <var>")
		}

		return current.Differentiate(fields[1])
	case ":s":
		return current.Simplify()
	case ":at":
		values := make([]float32, 0, len(fields)-1)
		for _, s := range fields[1:] {
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "value %q", s)
			}

			values = append(values, float32(v))
		}

		out, err := current.At(values...)
		if err != nil {
			return nil, err
		}

		fmt.Println(out)
		return nil, nil
	case ":latex", ":yaml", ":llvm":
		return nil, show(current, fields[0][1:])
	default:
		return nil, errors.Errorf("unknown command %s, type :help for help", fields[0])
	}
}

// define reads "name(a, b) = expr". Anything without a head is an unnamed
// expression of x.
func define(in *symdiff.Interpreter, line string) (*symdiff.Function, error) {
	head, body, ok := strings.Cut(line, "=")
	if !ok {
		return in.Parse("", line, "x")
	}

	name, args, ok := strings.Cut(strings.TrimSpace(head), "(")
	if !ok || !strings.HasSuffix(args, ")") {
		return nil, errors.Errorf("bad definition head %q", head)
	}

	var vars []string
	for _, v := range strings.Split(strings.TrimSuffix(args, ")"), ",") {
		if v = strings.TrimSpace(v); v != "" {
			vars = append(vars, v)
		}
	}

	return in.Parse(strings.TrimSpace(name), body, vars...)
}

func printError(err error) {
	switch e := errors.Cause(err).(type) {
	case *symdiff.BracketingError:
		fmt.Println("Unbalanced brackets:", e.Fragment, "at", e.Index)
	case *symdiff.ParseError:
		fmt.Println("Bad expression:", strconv.Quote(e.Fragment), e.Reason)
	case *symdiff.NameCollisionError:
		fmt.Println("Variable", e.Name, "collides with operator", e.Operator)
	case *symdiff.UndifferentiableError:
		fmt.Println("Cannot differentiate", e.Operator)
	case *symdiff.NestingDepthError:
		if e.Bracketed {
			fmt.Println("Operator chain too long:", e.Depth, "over", e.Max)
		} else {
			fmt.Println("Too deeply nested:", e.Depth, "over", e.Max)
		}
	case *symdiff.InvalidNameError:
		fmt.Println("Not a variable name:", strconv.Quote(e.Name))
	case *symdiff.EvaluationError:
		fmt.Println("Unbound variable:", e.Name)
	case *symdiff.UndefinedError:
		fmt.Println("Undefined value:", e.Name)
	default:
		fmt.Println(err)
	}
}
