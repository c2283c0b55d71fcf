// Command hello-client loads the embedded greeting page once, outside a
// browser: it resolves the API path, fetches the message and renders it
// into the page's message element.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/hello/internal/adapters/http/site"
	"github.com/okian/hello/internal/client/endpoint"
	"github.com/okian/hello/internal/client/message"
	"github.com/okian/hello/internal/client/page"
	"github.com/okian/hello/internal/config"
	"github.com/okian/hello/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hello-client",
		Short:        "Load the greeting page and print its message",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("page-url", "", "URL the page is loaded from (default from config)")
	root.PersistentFlags().String("server-port", "", "Port the API server listens on (default from config)")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the greeting and render it into the page",
		Args:  cobra.NoArgs,
		RunE:  runFetch,
	}
	fetchCmd.Flags().Bool("markup", false, "Render the message as HTML instead of text")
	fetchCmd.Flags().String("out", "", "Write the rendered page to this file")
	fetchCmd.Flags().String("endpoint", "", "API resource to fetch (default from config)")

	resolveCmd := &cobra.Command{
		Use:   "resolve <name>",
		Short: "Print the API path the page would request for name",
		Args:  cobra.ExactArgs(1),
		RunE:  runResolve,
	}

	root.AddCommand(fetchCmd, resolveCmd)
	return root
}

// loadConfig layers CLI flags over the loaded configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("page-url"); v != "" {
		cfg.PageURL = v
	}
	if v, _ := cmd.Flags().GetString("server-port"); v != "" {
		cfg.ServerPort = v
	}
	if f := cmd.Flags().Lookup("markup"); f != nil && f.Changed {
		cfg.RenderMarkup, _ = cmd.Flags().GetBool("markup")
	}
	if v, _ := cmd.Flags().GetString("endpoint"); v != "" {
		cfg.Endpoint = v
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newResolver(cfg *config.Config) *endpoint.Resolver {
	return endpoint.New(
		endpoint.WithServerPort(cfg.ServerPort),
		endpoint.WithHost(cfg.APIHost),
	)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Diagnostics go to stderr so stdout carries only the message.
	log := logger.NewText(cmd.ErrOrStderr()).Named("hello-client")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	index, err := site.IndexHTML()
	if err != nil {
		return err
	}
	doc, err := page.ParseString(string(index))
	if err != nil {
		return err
	}

	loader, err := message.NewLoader(doc,
		message.WithResolver(newResolver(cfg)),
		message.WithPageURL(cfg.PageURL),
		message.WithEndpoint(cfg.Endpoint),
		message.WithElementID(cfg.ElementID),
		message.WithMarkup(cfg.RenderMarkup),
		message.WithTimeout(cfg.FetchTimeout()),
		message.WithLogger(log),
		// Nothing scrapes a one-shot process.
		message.WithMetrics(message.NopRecorder{}),
	)
	if err != nil {
		return err
	}

	out := loader.Load(cmd.Context())

	text := out.Message
	if out.RenderErr == nil {
		if rendered, err := doc.Text(cfg.ElementID); err == nil {
			text = rendered
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)

	if path, _ := cmd.Flags().GetString("out"); path != "" {
		if err := writePage(doc, path); err != nil {
			return err
		}
	}
	// A failed fetch is already rendered and logged.
	return nil
}

func writePage(doc *page.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	if err := doc.Render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing page: %w", err)
	}
	return f.Close()
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	port, err := endpoint.PagePort(cfg.PageURL)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), newResolver(cfg).Path(port, args[0])+"\n")
	return err
}
