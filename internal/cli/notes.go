package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Dandandan2024/PropertyCalculator/internal/config"
	"github.com/Dandandan2024/PropertyCalculator/internal/models"
	"github.com/Dandandan2024/PropertyCalculator/internal/notes"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

type notesCmd struct {
	owner   string
	title   string
	content string
	yes     bool
	watch   bool
	style   string

	// set by tests; otherwise the -config file and the process streams
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func (*notesCmd) Name() string     { return "notes" }
func (*notesCmd) Synopsis() string { return "lists, edits and searches notes" }
func (*notesCmd) Usage() string {
	return `homebook notes [flags] <list|add|edit|rm|search|show> [args]

  Works on the notes of one owner in the configured backend.

Usage Examples:
# Add a note
$ homebook notes add "Groceries" "milk, eggs"

# Change only the content of a note
$ homebook notes -content "bread" edit <id>

# Delete without the confirmation prompt
$ homebook notes -yes rm <id>

# Search as you type, one query per line
$ homebook notes -watch search

# Render a note as markdown
$ homebook notes show <id>

`
}

func (p *notesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.owner, "owner", "anonymous", "Owner whose notes are used")
	f.StringVar(&p.title, "title", "", "Title for add and edit")
	f.StringVar(&p.content, "content", "", "Content for add and edit")
	f.BoolVar(&p.yes, "yes", false, "Delete without asking for confirmation")
	f.BoolVar(&p.watch, "watch", false, "search: read queries from stdin and search as they settle")
	f.StringVar(&p.style, "style", "dark", "show: glamour style (dark, light, notty, ...)")
}

func (p *notesCmd) streams() {
	if p.stdin == nil {
		p.stdin = os.Stdin
	}
	if p.stdout == nil {
		p.stdout = os.Stdout
	}
	if p.stderr == nil {
		p.stderr = os.Stderr
	}
	if p.now == nil {
		p.now = time.Now
	}
}

func (p *notesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p.streams()
	args := f.Args()
	if len(args) == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	cfg := p.cfg
	if cfg == nil {
		var err error
		if cfg, err = loadConfig(); err != nil {
			fmt.Fprintf(p.stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	store, closeStore, err := openNotes(ctx, cfg, p.owner)
	if err != nil {
		fmt.Fprintf(p.stderr, "Error: could not open notes: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if _, err := store.List(ctx); err != nil {
		fmt.Fprintf(p.stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	action, rest := args[0], args[1:]
	switch action {
	case "list":
		p.print(store.Snapshot())
	case "add":
		err = p.add(ctx, store, rest)
	case "edit":
		err = p.edit(ctx, store, rest)
	case "rm":
		err = p.remove(ctx, store, rest)
	case "search":
		err = p.search(store, rest, time.Duration(cfg.Search.DebounceMS)*time.Millisecond)
	case "show":
		err = p.show(store, rest)
	default:
		fmt.Fprintf(p.stderr, "Error: unknown action %q\n", action)
		return subcommands.ExitUsageError
	}

	if err != nil {
		fmt.Fprintf(p.stderr, "Error: %v\n", err)
		if errors.Is(err, notes.ErrValidation) || errors.Is(err, errMissingArg) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

var errMissingArg = errors.New("missing argument")

func (p *notesCmd) print(list []models.Note) {
	now := p.now()
	if len(list) == 0 {
		fmt.Fprintln(p.stdout, "No notes.")
		return
	}
	for _, n := range list {
		fmt.Fprintf(p.stdout, "%s  %-30s  %s\n", n.ID, n.Title, notes.RelativeTime(n.CreatedAt, now))
	}
}

// pick returns the flag value, else the positional argument, else "".
func pick(flagValue string, args []string, i int) string {
	if flagValue != "" {
		return flagValue
	}
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (p *notesCmd) add(ctx context.Context, store *notes.Store, args []string) error {
	n, err := store.Create(ctx, pick(p.title, args, 0), pick(p.content, args, 1))
	if err != nil {
		return err
	}
	fmt.Fprintf(p.stdout, "Created %s\n", n.ID)
	return nil
}

func (p *notesCmd) edit(ctx context.Context, store *notes.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("edit needs a note id: %w", errMissingArg)
	}
	old, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("note %s: %w", args[0], notes.ErrNotFound)
	}
	title, content := old.Title, old.Content
	if p.title != "" {
		title = p.title
	}
	if p.content != "" {
		content = p.content
	}
	if _, err := store.Update(ctx, old.ID, title, content); err != nil {
		return err
	}
	fmt.Fprintf(p.stdout, "Updated %s\n", old.ID)
	return nil
}

// confirm asks on stdin; only "y" or "yes" approves.
func (p *notesCmd) confirm(_ context.Context, prompt string) bool {
	if p.yes {
		return true
	}
	fmt.Fprintf(p.stdout, "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(p.stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (p *notesCmd) remove(ctx context.Context, store *notes.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("rm needs a note id: %w", errMissingArg)
	}
	done, err := store.DeleteConfirmed(ctx, args[0], notes.ConfirmFunc(p.confirm))
	if err != nil {
		return err
	}
	if !done {
		fmt.Fprintln(p.stdout, "Cancelled.")
		return nil
	}
	fmt.Fprintf(p.stdout, "Deleted %s\n", args[0])
	return nil
}

// search prints matches for args, or with -watch runs every stdin line
// through a LiveSearch that waits delay for input to settle.
func (p *notesCmd) search(store *notes.Store, args []string, delay time.Duration) error {
	if !p.watch {
		p.print(store.Search(strings.Join(args, " ")))
		return nil
	}

	var mu sync.Mutex
	live := notes.NewLiveSearch(store, delay, func(q string, found []models.Note) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(p.stdout, "== %q: %d found\n", q, len(found))
		p.print(found)
	})
	defer live.Close()

	sc := bufio.NewScanner(p.stdin)
	for sc.Scan() {
		live.Input(sc.Text())
	}
	live.Flush()
	return sc.Err()
}

func (p *notesCmd) show(store *notes.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("show needs a note id: %w", errMissingArg)
	}
	n, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("note %s: %w", args[0], notes.ErrNotFound)
	}
	out, err := glamour.Render("# "+n.Title+"\n\n"+n.Content, p.style)
	if err != nil {
		return fmt.Errorf("render note: %w", err)
	}
	fmt.Fprint(p.stdout, out)
	return nil
}
