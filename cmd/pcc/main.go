// Command pcc compiles the restricted-C dialect described in the project's
// specification into pigpio script-VM assembly text.
package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/chschnell/pcc/internal/ast"
	"github.com/chschnell/pcc/internal/cparse"
	"github.com/chschnell/pcc/internal/diag"
	"github.com/chschnell/pcc/internal/diaglog"
	"github.com/chschnell/pcc/internal/emit"
	"github.com/chschnell/pcc/internal/ir"
	"github.com/chschnell/pcc/internal/link"
	"github.com/chschnell/pcc/internal/lower"
	"github.com/chschnell/pcc/internal/panicerr"
	"github.com/chschnell/pcc/internal/srcload"
)

func main() {
	var (
		outPath     string
		comments    bool
		noReduce    bool
		dump        bool
		extendedISA bool
		memReport   bool
	)
	flag.StringVar(&outPath, "o", "", "output path ('-' for stdout); default is the stem of the last input plus .s")
	flag.BoolVar(&comments, "c", false, "include comments in the emitted assembly")
	flag.BoolVar(&noReduce, "n", false, "disable the peephole reducer")
	flag.BoolVar(&dump, "d", false, "dump parser AST nodes alongside diagnostics")
	flag.BoolVar(&extendedISA, "x", false, "enable extended-ISA dialect")
	flag.BoolVar(&memReport, "mem-report", false, "print final tag/variable counts to stderr even on success")
	flag.Parse()

	log := &diaglog.Logger{}
	log.SetOutput(os.Stderr)
	defer os.Exit(log.ExitCode())

	args := flag.Args()
	if len(args) == 0 {
		log.Errorf("usage: pcc [options] C_FILE [C_FILE...]")
		return
	}

	if outPath == "" {
		last := args[len(args)-1]
		ext := filepath.Ext(last)
		outPath = strings.TrimSuffix(last, ext) + ".s"
	}

	opts := newCompileOptions(
		WithComments(comments),
		WithDump(dump),
		WithExtendedISA(extendedISA),
		WithMemReport(memReport),
	)
	if noReduce {
		WithoutReduce().apply(opts)
	}

	vmAPIPath := filepath.Join(selfDir(), "vm_api.h")
	if _, err := os.Stat(vmAPIPath); err != nil {
		if wd, werr := os.Getwd(); werr == nil {
			vmAPIPath = filepath.Join(wd, "vm_api.h")
		}
	}

	err := panicerr.Isolate("pcc", func() error {
		return run(args, vmAPIPath, outPath, opts, log)
	})
	if err != nil {
		log.Errorf("%v", err)
	}
}

func selfDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

func run(paths []string, vmAPIPath, outPath string, opts *compileOptions, log *diaglog.Logger) error {
	files, err := srcload.Load(paths, vmAPIPath)
	if err != nil {
		return err
	}

	var bundle diag.Bundle
	pool := &ir.Pool{}
	comp := lower.New(pool, opts.dialect())

	for _, f := range files {
		bundle.Append(f.Name, f.Content)
		tu, perr := cparse.Parse(f.Name, f.Content)
		if perr != nil {
			if pe, ok := perr.(*cparse.ParseError); ok {
				comp.Diags.Errorf(pe.Pos, "", "%s", pe.Msg)
			} else {
				comp.Diags.Errorf(ast.Pos{File: f.Name}, "", "%v", perr)
			}
			continue
		}
		if opts.dump {
			for _, d := range tu.Decls {
				log.Printf("TRACE", "%s", ast.Dump(d))
			}
		}
		comp.CompileUnit(tu)
	}
	comp.Finish()

	if comp.Diags.HasErrors() {
		diag.Print(os.Stderr, comp.Diags, &bundle)
		log.Errorf("compilation failed with %d error(s)", comp.Diags.ErrorCount())
		return nil
	}

	scr0, args := comp.ReservedVars()
	result := link.Link(comp.Funcs(), comp.Helpers(), scr0, args, comp.IsLocal, pool, comp.Diags, link.Options{Reduce: opts.reduce})

	if comp.Diags.HasErrors() || result == nil {
		diag.Print(os.Stderr, comp.Diags, &bundle)
		log.Errorf("compilation failed with %d error(s)", comp.Diags.ErrorCount())
		return nil
	}

	if opts.memReport || result.Overshoot {
		level := "INFO"
		if result.Overshoot {
			level = "ERROR"
		}
		log.Printf(level, "variables used: %d, tags used: %d", result.VarCount, result.TagCount)
	}

	var out bytes.Buffer
	if err := emit.Emit(&out, result.Buffers, result.Bindings, comp.AllVars(), emit.Options{Comments: opts.comments}); err != nil {
		return err
	}

	if outPath == "-" {
		_, err := os.Stdout.Write(out.Bytes())
		return err
	}
	return os.WriteFile(outPath, out.Bytes(), 0o644)
}

