package commands

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Descent098/ezcv/internal/preview"
	"github.com/Descent098/ezcv/internal/site"
)

// PreviewCmd serves the site with live reload.
type PreviewCmd struct {
	Host            string        `help:"Interface to listen on" default:"localhost"`
	Port            int           `short:"p" help:"Port to listen on" default:"8000"`
	Output          string        `short:"o" help:"Keep the preview in this directory instead of a temporary one"`
	Theme           string        `short:"t" help:"Override the configured theme"`
	RebuildInterval time.Duration `name:"rebuild-interval" help:"Also rebuild on this interval (0 disables)" default:"0s"`
	NoOpen          bool          `name:"no-open" help:"Do not open a browser"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := preview.New(p.options(root))
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func (p *PreviewCmd) options(root *CLI) preview.Options {
	return preview.Options{
		Site: site.Options{
			Root:       root.Root,
			ConfigPath: root.ConfigPath(),
			Theme:      p.Theme,
			Progress:   os.Stderr,
		},
		Addr:            p.Host + ":" + strconv.Itoa(p.Port),
		Output:          p.Output,
		RebuildInterval: p.RebuildInterval,
		Open:            !p.NoOpen,
	}
}
