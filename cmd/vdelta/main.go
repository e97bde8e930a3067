// Command vdelta encodes and applies binary deltas between files using
// whichever delta backend is available.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/vdelta/vdelta"
	"github.com/vdelta/vdelta/backend"
	"github.com/vdelta/vdelta/endpoint"
	"github.com/vdelta/vdelta/logger"
	"github.com/vdelta/vdelta/utils"

	_ "github.com/vdelta/vdelta/backend/binarydist"
	_ "github.com/vdelta/vdelta/backend/bsdiff"
	_ "github.com/vdelta/vdelta/backend/fdelta"
	_ "github.com/vdelta/vdelta/backend/xdelta3"
)

type command struct {
	Flag  *flag.FlagSet
	Run   func([]string) error
	Usage string
	Help  string
}

const (
	name      = "vdelta"
	baseUsage = "<command> [<options>] [--] <args>"
)

var (
	logLevel    int
	backendName string
	compress    bool
)

var diffCmd = command{flag.NewFlagSet("diff", flag.ExitOnError), diffMain,
	"[<options>] [--] <source> <target> [<delta>]",
	"Encode the delta from file <source> to file <target>",
}
var patchCmd = command{flag.NewFlagSet("patch", flag.ExitOnError), patchMain,
	"[<options>] [--] <source> <delta> [<target>]",
	"Rebuild the target from file <source> and <delta>",
}
var backendsCmd = command{flag.NewFlagSet("backends", flag.ExitOnError), backendsMain,
	"[<options>]",
	"List the registered delta backends",
}
var subcommands = map[string]command{
	diffCmd.Flag.Name():     diffCmd,
	patchCmd.Flag.Name():    patchCmd,
	backendsCmd.Flag.Name(): backendsCmd,
}

func init() {
	// init default help message
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s %s\n\ncommands:\n", name, baseUsage)
		for _, s := range subcommands {
			fmt.Printf("  %s	%s\n", s.Flag.Name(), s.Help)
		}
		os.Exit(1)
	}
	// setup subcommands
	for _, s := range subcommands {
		s.Flag.IntVar(&logLevel, "v", 3, "log verbosity level (0-4)")
		s.Flag.StringVar(&backendName, "b", "", "force this backend instead of resolving one")
	}
	for _, s := range []command{diffCmd, patchCmd} {
		s.Flag.BoolVar(&compress, "z", false, "zlib-compress the delta")
	}
}

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
	}
	cmd, exists := subcommands[args[0]]
	if !exists {
		fmt.Fprintf(flag.CommandLine.Output(), "error: unknown command %s\n\n", args[0])
		flag.Usage()
	}
	cmd.Flag.Usage = func() {
		fmt.Fprintf(cmd.Flag.Output(), "usage: %s %s %s\n\noptions:\n", name, cmd.Flag.Name(), cmd.Usage)
		cmd.Flag.PrintDefaults()
		os.Exit(1)
	}
	cmd.Flag.Parse(args[1:])
	logger.Init(logLevel)
	if backendName != "" {
		vdelta.SetBackend(backendName)
	}
	if err := cmd.Run(cmd.Flag.Args()); err != nil {
		fmt.Fprintf(cmd.Flag.Output(), "error: %s\n\n", err)
		cmd.Flag.Usage()
	}
}

func diffMain(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("wrong number of args")
	}
	source, err := openSource(args[0])
	if err != nil {
		return err
	}
	defer source.Close()
	target, err := openInput(args[1])
	if err != nil {
		return err
	}
	defer target.Close()
	out, err := openOutput(args, 2)
	if err != nil {
		return err
	}
	defer out.Close()

	wrapper := utils.NopWriteWrapper
	if compress {
		wrapper = utils.ZlibWriter
	}
	w := wrapper(out)
	srcEp, err := endpoint.FromReader(source, endpoint.Source)
	if err != nil {
		return err
	}
	tgtEp, err := endpoint.FromReader(target, endpoint.Input)
	if err != nil {
		return err
	}
	if err := vdelta.DiffTo(srcEp, tgtEp, endpoint.FromWriter(w)); err != nil {
		return err
	}
	return w.Close()
}

func patchMain(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("wrong number of args")
	}
	source, err := openSource(args[0])
	if err != nil {
		return err
	}
	defer source.Close()
	delta, err := openInput(args[1])
	if err != nil {
		return err
	}
	defer delta.Close()
	out, err := openOutput(args, 2)
	if err != nil {
		return err
	}
	defer out.Close()

	wrapper := utils.NopReadWrapper
	if compress {
		wrapper = utils.ZlibReader
	}
	r, err := wrapper(delta)
	if err != nil {
		return err
	}
	defer r.Close()
	srcEp, err := endpoint.FromReader(source, endpoint.Source)
	if err != nil {
		return err
	}
	delEp, err := endpoint.FromReader(r, endpoint.Input)
	if err != nil {
		return err
	}
	return vdelta.PatchTo(srcEp, delEp, endpoint.FromWriter(out))
}

func backendsMain(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("wrong number of args")
	}
	active, err := vdelta.Which()
	if err != nil {
		logger.Warning(err)
	}
	for _, id := range backend.Default.Backends() {
		mark := " "
		if id == active {
			mark = "*"
		}
		fmt.Printf("%s %s\n", mark, id)
	}
	return nil
}

// openSource opens the source file. The source must be a real file: delta
// codecs read it non-sequentially, so stdin is not accepted here.
func openSource(path string) (*os.File, error) {
	if path == "-" {
		return nil, fmt.Errorf("source cannot be stdin, it must be seekable")
	}
	return os.Open(path)
}

// openInput opens the target or delta input, "-" meaning stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// openOutput opens the optional trailing output argument, defaulting to
// stdout.
func openOutput(args []string, i int) (io.WriteCloser, error) {
	if len(args) <= i || args[i] == "-" {
		return utils.NopCloser(os.Stdout), nil
	}
	return os.Create(args[i])
}
