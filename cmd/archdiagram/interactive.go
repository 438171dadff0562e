package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/google/shlex"
	"github.com/klothoplatform/archdiagram/pkg/export"
	archio "github.com/klothoplatform/archdiagram/pkg/io"
	"github.com/klothoplatform/archdiagram/pkg/viewstate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const interactiveHelp = `Type an architecture description and press enter to generate a diagram.
Commands:
  :zoom+ / :zoom- / :zoom0   change the zoom level
  :tips                      show or hide best practices
  :export <format> [dir]     write the current diagram (mermaid, dot, svg, json, yaml); quote dirs with spaces
  :dismiss                   clear the current error
  :state                     print the view state as JSON
  :help                      show this help
  :quit                      exit`

func newInteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Generate diagrams interactively from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			gen, err := newGenerator(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			r := &repl{
				shell: viewstate.NewShell(gen),
				in:    cmd.InOrStdin(),
				out:   cmd.OutOrStdout(),
				tty:   term.IsTerminal(int(os.Stdin.Fd())),
			}
			return r.run(cmd.Context())
		},
	}
}

type repl struct {
	shell *viewstate.Shell
	in    io.Reader
	out   io.Writer
	tty   bool

	mu      sync.Mutex
	pending sync.WaitGroup
}

func (r *repl) printf(format string, a ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, a...)
}

func (r *repl) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.shell.OnChange = func(s viewstate.ViewState) {
		if s.Status == viewstate.Loading || s.Status == viewstate.Success || s.Status == viewstate.Error {
			r.render(s)
		}
	}
	r.printf("%s\n", interactiveHelp)

	scanner := bufio.NewScanner(r.in)
	for {
		if r.tty {
			r.printf("> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := r.handle(ctx, line); quit {
			break
		}
	}
	r.pending.Wait()
	return scanner.Err()
}

// handle executes one input line and reports whether the session should end.
func (r *repl) handle(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, ":") {
		r.submit(ctx, line)
		return false
	}

	fields, err := shlex.Split(line)
	if err != nil {
		r.printf("%s\n", color.New(color.FgRed).Sprint(errors.Wrap(err, "could not parse command")))
		return false
	}
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		r.printf("%s\n", interactiveHelp)
	case ":zoom+":
		r.printf("zoom %.0f%%\n", r.shell.ZoomIn().Zoom*100)
	case ":zoom-":
		r.printf("zoom %.0f%%\n", r.shell.ZoomOut().Zoom*100)
	case ":zoom0":
		r.printf("zoom %.0f%%\n", r.shell.ResetZoom().Zoom*100)
	case ":tips":
		r.renderBestPractices(r.shell.ToggleBestPractices())
	case ":dismiss":
		if _, err := r.shell.DismissError(); err != nil {
			r.printf("%s\n", err)
		}
	case ":state":
		b, _ := json.MarshalIndent(r.shell.State(), "", "  ")
		r.printf("%s\n", b)
	case ":export":
		if err := r.export(ctx, fields[1:]); err != nil {
			r.printf("%s\n", color.New(color.FgRed).Sprint(err))
		}
	default:
		r.printf("unknown command %s (try :help)\n", fields[0])
	}
	return false
}

// submit runs the generation in the background so view commands keep working while it loads.
func (r *repl) submit(ctx context.Context, description string) {
	if r.shell.Busy() {
		r.printf("%s\n", viewstate.ErrBusy)
		return
	}
	r.pending.Add(1)
	go func() {
		defer r.pending.Done()
		if _, err := r.shell.Submit(ctx, description); errors.Is(err, viewstate.ErrBusy) {
			r.printf("%s\n", err)
		}
	}()
}

func (r *repl) export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: :export <format> [dir]")
	}
	format, err := export.ParseFormat(args[0])
	if err != nil {
		return err
	}
	dir := "."
	if len(args) > 1 {
		dir = args[1]
	}
	f, err := r.shell.Export(ctx, format)
	if err != nil {
		return err
	}
	if err := archio.OutputTo([]archio.File{f}, dir); err != nil {
		return err
	}
	r.printf("wrote %s\n", f.Path())
	return nil
}

func (r *repl) render(s viewstate.ViewState) {
	switch s.Status {
	case viewstate.Loading:
		r.printf("%s\n", color.New(color.FgYellow).Sprint("Generating..."))

	case viewstate.Error:
		r.printf("%s\n", color.New(color.FgRed).Sprint(s.Error))

	case viewstate.Success:
		r.printf("%s\n%s\n", color.New(color.Bold).Sprint(s.Result.DiagramTitle), s.Result.MermaidCode)
		r.printf("(:tips to show best practices, :export <format> to save)\n")
	}
}

func (r *repl) renderBestPractices(s viewstate.ViewState) {
	if !s.ShowBestPractices {
		r.printf("best practices hidden\n")
		return
	}
	if s.Result == nil {
		r.printf("no diagram yet\n")
		return
	}
	sections := s.Result.Sections()
	if len(sections) == 0 {
		r.printf("%s\n", s.Result.BestPractices)
		return
	}
	heading := color.New(color.FgCyan, color.Bold)
	for _, section := range sections {
		r.printf("%s\n", heading.Sprint(section.Title))
		for _, item := range section.Items {
			r.printf("  • %s\n", item)
		}
	}
}
