// Command epolice is the operator console for the E-Police master-data
// backend: paging and searching collections, cascade drill-downs, CRUD,
// client-side PDF/Excel exports and bulk spreadsheet transfer.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"epolice/internal/config"
	"epolice/internal/epolice"
	"epolice/internal/logger"
	"epolice/internal/version"
	"epolice/pkg/restclient"
)

// app bundles everything the subcommands share.
type app struct {
	cfg *config.Config
	res *epolice.Resources
}

func main() {
	l := logger.Setup()

	cfg, err := config.Load()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:          "epolice",
		Short:        "E-Police master-data console",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client := restclient.New(cfg.BaseURL,
				restclient.WithToken(cfg.AuthToken),
				restclient.WithLogger(l),
				restclient.WithHTTPClient(&http.Client{
					Timeout:   cfg.HTTPTimeout,
					Transport: logger.Transport(l, nil),
				}),
			)
			a.res = epolice.NewResources(client)
			l.Debug("client_ready", "base", cfg.BaseURL)
		},
	}
	root.AddCommand(
		a.listCmd(),
		a.getCmd(),
		a.createCmd(),
		a.updateCmd(),
		a.deleteCmd(),
		a.cascadeCmd(),
		a.exportCmd(),
		a.templateCmd(),
		a.uploadCmd(),
		a.watchCmd(),
		versionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Version)
		},
	}
}

// resourceArg validates the positional resource name.
func resourceArg(args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("missing resource; one of %v", epolice.KnownResources)
	}
	for _, r := range epolice.KnownResources {
		if r == args[0] {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown resource %q; one of %v", args[0], epolice.KnownResources)
}
