package cli

import (
	"context"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/archrip/archrip/internal/server"
)

const defaultServeDir = ".archrip/dist"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve a built directory with a live layout API",
		Long: `Serve a directory produced by "archrip build" over HTTP. Besides the static
files, GET /api/layout?depth=N&layout=K re-derives any view from the
directory's architecture.json, which is re-read whenever it changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := defaultServeDir
			if len(args) > 0 {
				dir = args[0]
			}
			if addr == "" {
				addr = c.cfg.Serve.Addr
			}
			return c.runServe(cmd.Context(), dir, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :4173)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, dir, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv, err := server.New(server.Config{
		Dir:    dir,
		Runner: runner,
		Params: c.cfg.Layout,
		Logger: c.Logger,
	})
	if err != nil {
		return err
	}

	return srv.ListenAndServe(ctx, addr, func(a net.Addr) {
		c.printSuccess("Serving %s", dir)
		c.printKeyValue("URL", StyleLink.Render("http://"+displayAddr(a)))
		c.printKeyValue("Layout API", "/api/layout?depth=0..2&layout=dagre|concentric")
	})
}

// displayAddr replaces an unspecified host with localhost.
func displayAddr(a net.Addr) string {
	tcp, ok := a.(*net.TCPAddr)
	if !ok || !tcp.IP.IsUnspecified() {
		return a.String()
	}
	return net.JoinHostPort("localhost", strconv.Itoa(tcp.Port))
}
