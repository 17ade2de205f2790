package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Dandandan2024/PropertyCalculator/internal/app"

	"github.com/google/subcommands"
)

type serveCmd struct {
	port int
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "runs the HTTP API" }
func (*serveCmd) Usage() string {
	return `homebook serve [-port <port>]

  Serves the notes and property division API, the same server as the
  homebook binary at the repository root.
`
}

func (p *serveCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.port, "port", 0, "Port to listen on. Overrides server.port.")
}

func (p *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if p.port > 0 {
		cfg.Server.Port = p.port
	}

	logFile, err := app.SetupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logFile.Close()

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
