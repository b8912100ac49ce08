package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/artpar/stackgen/internal/core/service"
	"github.com/artpar/stackgen/internal/shell/generator"
	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "stackgen",
		Short:         "stackgen: scaffold a multi-service project with a compose file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file")

	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newKindsCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// =============================================================================
// generate
// =============================================================================

type generateFlags struct {
	output   string
	project  string
	envNames []string
	noTools  bool
	pull     bool
	verify   bool
	logLevel string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write compose.yml, .env.example and service directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(root.configPath)
			if err != nil {
				return &CommandError{Op: "load config", Err: err, ExitCode: ExitConfigError}
			}
			flags.apply(cmd, cfg)

			logger := newLogger(cfg, cmd.ErrOrStderr())
			logger.Info("starting stackgen",
				"version", Version,
				"config", root.configPath,
				"output", cfg.OutputDir,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, err := Generate(ctx, cfg, logger)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "Output directory (default \".\")")
	f.StringVarP(&flags.project, "project", "p", "", "Compose project name")
	f.StringSliceVarP(&flags.envNames, "env", "e", nil, "Environment names; each adds .env.<name>.example")
	f.BoolVar(&flags.noTools, "no-tools", false, "Do not run package managers or scaffolders")
	f.BoolVar(&flags.pull, "pull", false, "Pre-pull every image the stack uses")
	f.BoolVar(&flags.verify, "verify", true, "Verify compose.yml with the compose-spec loader")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	return cmd
}

// apply overrides cfg with the flags that were set on the command line.
func (g *generateFlags) apply(cmd *cobra.Command, cfg *Config) {
	f := cmd.Flags()
	if f.Changed("output") {
		cfg.OutputDir = g.output
	}
	if f.Changed("project") {
		cfg.Project = g.project
	}
	if f.Changed("env") {
		cfg.EnvNames = g.envNames
	}
	if f.Changed("no-tools") {
		cfg.Toolchain.Enabled = !g.noTools
	}
	if f.Changed("pull") {
		cfg.Images.Pull = g.pull
	}
	if f.Changed("verify") {
		cfg.Compose.Verify = g.verify
	}
	if f.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
}

func printResult(w io.Writer, r *generator.Result) {
	fmt.Fprintf(w, "Generated %d services in %s (run %s)\n", len(r.Services), r.Root, r.RunID)
	for _, name := range r.Services {
		fmt.Fprintf(w, "  ./%s/\n", name)
	}
	for _, file := range r.Files {
		fmt.Fprintf(w, "  %s\n", file)
	}
	for _, img := range r.Pulled {
		fmt.Fprintf(w, "Pulled %s\n", img)
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "Warning: %v\n", warn)
	}
}

// =============================================================================
// kinds
// =============================================================================

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the service kinds a config can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tROLE\tDEFAULT NAME\tDEFAULT PORT")
			for _, k := range service.Kinds() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", k.Kind, k.Role, k.DefaultName, k.DefaultPort)
			}
			return tw.Flush()
		},
	}
}

// =============================================================================
// version
// =============================================================================

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stackgen %s (built %s)\n", Version, BuildTime)
		},
	}
}
