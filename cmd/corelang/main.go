// Command corelang is a thin driver over internal/pipeline: it has no
// parser of its own (parsing source text is out of scope for this
// repository), so "check" runs the pipeline over a small built-in sample
// module, and "check-repl" lets a user build a module interactively, one
// declaration at a time, using the tiny debug grammar in replexpr.go.
// Both exist to exercise and demonstrate internal/pipeline.Run, not as a
// deliverable compiler CLI, matching the teacher's cmd/ailang's own
// color-coded terminal conventions.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"gopkg.in/yaml.v3"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/cache"
	"github.com/sunholo/corelang/internal/pipeline"
)

var (
	Version = "dev"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "print version information")
		helpFlag    = flag.Bool("help", false, "show help")
		configPath  = flag.String("config", "", "path to a YAML pipeline.Config")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("corelang %s\n", Version)
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "check":
		runCheck(cfg, sampleModules())
	case "check-repl":
		runCheckRepl(cfg)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), flag.Arg(0))
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("corelang") + " - a thin driver over internal/pipeline")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  corelang [-config FILE] check        run the pipeline over a sample module")
	fmt.Println("  corelang [-config FILE] check-repl   build a module interactively and re-check it")
	fmt.Println("  corelang -version                    print version information")
}

func loadConfig(path string) (pipeline.Config, error) {
	cfg := pipeline.Config{Workers: 1}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.CachePath != "" {
		store, err := cache.Open(cfg.CachePath)
		if err != nil {
			return cfg, fmt.Errorf("opening cache: %w", err)
		}
		cfg.Cache = store
	}
	return cfg, nil
}

// sampleModules is the demo module "check" exercises in the absence of a
// parser: one exported constant, grounded in internal/pipeline's own
// pipeline_test.go fixture.
func sampleModules() []*ast.Module {
	return []*ast.Module{{
		Path: "app/main",
		ValDecls: []*ast.GlobalValueDecl{
			{Name: "answer", Scheme: &ast.SchemeExpr{Body: &ast.TyConRef{Name: "Int"}}},
		},
		ValDefns: []*ast.GlobalValueDefn{
			{Name: "answer", Body: &ast.Lit{Kind: ast.LitInt, Value: 42}},
		},
		Exports: []*ast.ExportStatement{{Name: "answer"}},
	}}
}

func runCheck(cfg pipeline.Config, modules []*ast.Module) {
	if len(cfg.EntryPoints) == 0 {
		for _, m := range modules {
			for _, exp := range m.Exports {
				cfg.EntryPoints = append(cfg.EntryPoints, exp.Name)
			}
		}
	}
	prog, errs := pipeline.Run(modules, cfg)
	if errs.HasErrors() {
		for _, rep := range errs.Reports() {
			fmt.Printf("%s %s: %s (%s)\n", red(rep.Code), rep.Phase, rep.Message, rep.PrimarySpan())
		}
		os.Exit(1)
	}
	fmt.Println(green("ok"))
	for _, exp := range prog.Exports {
		kind := "pure"
		if exp.Type.IsIO {
			kind = "IO"
		}
		fmt.Printf("  %s %s :: %s (%d params)\n", yellow(exp.Name), kind, exp.Module, len(exp.Type.Params))
	}
}

func runCheckRepl(cfg pipeline.Config) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println(cyan("corelang check-repl") + " -- enter 'name : Type = expr', blank line to check, Ctrl-D to quit")

	mod := &ast.Module{Path: "repl/main"}
	for {
		text, err := line.Prompt("corelang> ")
		if err != nil {
			fmt.Println()
			return
		}
		line.AppendHistory(text)

		if text == "" {
			checkAndPrint(cfg, mod)
			continue
		}
		if text == ":export" {
			if len(mod.ValDefns) > 0 {
				name := mod.ValDefns[len(mod.ValDefns)-1].Name
				mod.Exports = append(mod.Exports, &ast.ExportStatement{Name: name})
				fmt.Println(green("exported " + name))
			}
			continue
		}

		decl, defn, err := ParseDecl(text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("parse error"), err)
			continue
		}
		mod.ValDecls = append(mod.ValDecls, decl)
		mod.ValDefns = append(mod.ValDefns, defn)
		fmt.Println(green("added " + decl.Name))
	}
}

func checkAndPrint(cfg pipeline.Config, mod *ast.Module) {
	localCfg := cfg
	if len(localCfg.EntryPoints) == 0 {
		for _, exp := range mod.Exports {
			localCfg.EntryPoints = append(localCfg.EntryPoints, exp.Name)
		}
	}
	prog, errs := pipeline.Run([]*ast.Module{mod}, localCfg)
	if errs.HasErrors() {
		for _, rep := range errs.Reports() {
			fmt.Printf("%s %s: %s (%s)\n", red(rep.Code), rep.Phase, rep.Message, rep.PrimarySpan())
		}
		return
	}
	fmt.Println(green("ok"))
	if prog == nil {
		return
	}
	for _, exp := range prog.Exports {
		kind := "pure"
		if exp.Type.IsIO {
			kind = "IO"
		}
		fmt.Printf("  %s %s :: %s (%d params)\n", yellow(exp.Name), kind, exp.Module, len(exp.Type.Params))
	}
}
