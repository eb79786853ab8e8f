package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"jarch/internal/client"
	"jarch/internal/config"
	"jarch/internal/reference"
)

// options — общие флаги; итоговые значения в cfg (JSON -> ENV -> флаги)
type options struct {
	configPath string
	api        string
	tokenFile  string
	enumsDir   string

	cfg config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	root := newRootCmd()
	root.SetOut(os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:          "jarchctl",
		Short:        "Console for entity-config / app-config documents and the jarch generation platform",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromFileAndEnv(o.configPath)
			if err != nil {
				return fmt.Errorf("config %s: %w", o.configPath, err)
			}
			fl := cmd.Flags()
			if fl.Changed("api") {
				cfg.APIBase = o.api
			}
			if fl.Changed("token-file") {
				cfg.TokenFile = o.tokenFile
			}
			if fl.Changed("enums") {
				cfg.EnumsDir = o.enumsDir
			}
			o.cfg = cfg
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "jarch.json", "Path to config JSON")
	pf.StringVar(&o.api, "api", "", "Platform API base URL (default: config / JARCH_API_BASE)")
	pf.StringVar(&o.tokenFile, "token-file", "", "Token file (default: config / JARCH_TOKEN_FILE)")
	pf.StringVar(&o.enumsDir, "enums", "", "Enum overrides directory")

	root.AddCommand(
		newValidateCmd(o),
		newDDLCmd(o),
		newLoginCmd(o),
		newRegisterCmd(o),
		newLogoutCmd(o),
		newWhoamiCmd(o),
		newProjectsCmd(o),
		newTeamCmd(o),
		newSavesCmd(o),
		newGenerateCmd(o),
	)
	return root
}

func (o *options) client() (*client.Client, error) {
	s, err := client.NewSession(o.cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	return client.New(o.cfg.APIBase, s), nil
}

func (o *options) catalog() (reference.Catalog, error) {
	return reference.Load(o.cfg.EnumsDir)
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: positive integer expected, got %q", what, s)
	}
	return id, nil
}
