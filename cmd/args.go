package cmd

import (
	"os"

	"github.com/ComedicChimera/olive"
)

// cliArgs is the parsed, flag-level view of the invocation; resolveOptions
// folds it over a Config to produce the final runOptions.
type cliArgs struct {
	path      string
	hasPath   bool
	opt       bool
	allocSet  bool
	alloc     string
	inline    bool
	configSet bool
	config    string
	dumpIR    bool
}

// parseArgs builds the olive CLI description and parses os.Args against
// it. The driver is a single flat command, `rvcc [flags] [<path>]`, with
// no subcommands.
func parseArgs(args []string) (cliArgs, error) {
	cli := olive.NewCLI("rvcc", "rvcc compiles the source dialect to RV32IM assembly", false)

	cli.AddFlag("opt", "o", "enable the IR optimizer")
	cli.AddSelectorArg("alloc", "a", "register allocation strategy", false, []string{"naive", "linear", "graph"})
	cli.AddFlag("inline", "i", "enable small-function inlining (only takes effect with -opt)")
	cli.AddStringArg("config", "c", "path to an rvcc.toml project config file", false)
	cli.AddFlag("dump-ir", "d", "dump the optimized IR to stderr before codegen")
	cli.AddPrimaryArg("path", "path to the source file; reads stdin if omitted", false)

	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		return cliArgs{}, err
	}

	out := cliArgs{}
	if _, ok := result.Arguments["opt"]; ok {
		out.opt = true
	}
	if v, ok := result.Arguments["alloc"]; ok {
		out.alloc, out.allocSet = v.(string), true
	}
	if _, ok := result.Arguments["inline"]; ok {
		out.inline = true
	}
	if v, ok := result.Arguments["config"]; ok {
		out.config, out.configSet = v.(string), true
	}
	if _, ok := result.Arguments["dump-ir"]; ok {
		out.dumpIR = true
	}
	if p, ok := result.PrimaryArg(); ok {
		out.path, out.hasPath = p, true
	}

	return out, nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
