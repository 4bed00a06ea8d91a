package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hpn/hpn-transform/internal/adapter"
	"github.com/hpn/hpn-transform/internal/config"
	"github.com/hpn/hpn-transform/internal/domain"
	"github.com/hpn/hpn-transform/internal/ui"
)

// rootFlags holds the transformation flags of the root command.
type rootFlags struct {
	provider    string
	model       string
	context     string
	contextFile string
	quiet       bool
	verbose     bool
}

// newRootCmd creates the root command. Without a subcommand it transforms
// the prompt given as arguments, or read from stdin when piped.
func newRootCmd(a *app) *cobra.Command {
	var f rootFlags

	rootCmd := &cobra.Command{
		Use:   "hpn-transform [prompt...]",
		Short: "Transform text with OpenAI, Claude or Gemini",
		Long: `Send a prompt, with optional context, to one of the configured LLM providers
and print the transformed text.

The provider is chosen in this order: --provider if it has a key, the
configured default provider if it has a key, then the priority order
(claude, openai, gemini unless configured otherwise).

Examples:
  hpn-transform "fix the grammar: me and him goes home"
  git diff | hpn-transform -c "write a commit message for this diff"
  hpn-transform -p gemini -m gemini-1.5-pro -- models are hard to name`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTransform(cmd, args, f)
		},
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to configuration file (default $HOME/.hpn-transform/config.yaml)")

	rootCmd.Flags().StringVarP(&f.provider, "provider", "p", "", "Provider to use (openai, claude, gemini)")
	rootCmd.Flags().StringVarP(&f.model, "model", "m", "", "Model to use instead of the provider default")
	rootCmd.Flags().StringVarP(&f.context, "context", "c", "", "Context or instruction sent ahead of the prompt")
	rootCmd.Flags().StringVar(&f.contextFile, "context-file", "", "Read context from a file")
	rootCmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "Print only the result text")
	rootCmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print provider, model and latency; enable debug logs")

	rootCmd.AddCommand(
		newModelsCmd(a),
		newSuggestCmd(a),
		newConfigCmd(a),
		newServeCmd(a),
		newVersionCmd(a),
	)

	return rootCmd
}

func (a *app) runTransform(cmd *cobra.Command, args []string, f rootFlags) error {
	console := ui.NewConsole(a.stdout, a.stderr, ui.WithQuiet(f.quiet), ui.WithVerbose(f.verbose))

	s, err := a.setup(f.verbose, "")
	if err != nil {
		return err
	}

	prompt, err := a.readPrompt(args)
	if err != nil {
		return err
	}

	contextText, err := readContext(f)
	if err != nil {
		return err
	}

	req := domain.TransformRequest{
		Prompt:   prompt,
		Context:  contextText,
		Provider: domain.ProviderType(strings.ToLower(strings.TrimSpace(f.provider))),
		Model:    f.model,
	}

	outcome, err := s.orch.Run(cmd.Context(), req, s.cfg.Settings())
	if err != nil {
		return err
	}

	console.Outcome(outcome)
	if !outcome.OK() {
		return &exitError{code: exitFailure}
	}
	return nil
}

// readPrompt joins the arguments, falling back to stdin when no argument
// was given and input is piped.
func (a *app) readPrompt(args []string) (string, error) {
	prompt := strings.Join(args, " ")
	if strings.TrimSpace(prompt) != "" || !a.stdinPiped {
		return prompt, nil
	}

	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", &domain.InvalidInputError{Field: "prompt", Reason: "failed to read stdin: " + err.Error()}
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func readContext(f rootFlags) (string, error) {
	if f.contextFile == "" {
		return f.context, nil
	}
	if f.context != "" {
		return "", &domain.InvalidInputError{Field: "context", Reason: "use either --context or --context-file"}
	}

	data, err := os.ReadFile(f.contextFile)
	if err != nil {
		return "", &domain.InvalidInputError{Field: "context-file", Reason: err.Error()}
	}
	return string(data), nil
}

func newModelsCmd(a *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "models [provider]",
		Short: "List the models each configured provider offers",
		Long: `Query the vendor model listing for every provider with an API key, or for
one provider. Providers whose listing fails are shown with no models.`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.setup(false, "")
			if err != nil {
				return err
			}
			console := ui.NewConsole(a.stdout, a.stderr, ui.WithQuiet(quiet))
			settings := s.cfg.Settings()

			if len(args) == 1 {
				p, ok := domain.ParseProviderType(args[0])
				if !ok {
					return &domain.InvalidInputError{Field: "provider", Reason: fmt.Sprintf("unknown provider %q", args[0])}
				}
				models, err := s.orch.ListModels(cmd.Context(), p, settings)
				if err != nil {
					return err
				}
				console.ModelList(p, models)
				return nil
			}

			if !settings.Credentials.Any() {
				return &domain.ConfigurationError{Err: domain.ErrNoCredentials}
			}
			console.Models(s.orch.ListAllModels(cmd.Context(), settings))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print model ids only")
	return cmd
}

func newSuggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <provider>",
		Short: "Print well-known model ids for a provider without calling its API",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models := adapter.ModelSuggestions(strings.ToLower(strings.TrimSpace(args[0])))
			ui.NewConsole(a.stdout, a.stderr).Suggestions(args[0], models)
			if len(models) == 0 {
				return &exitError{code: exitUsage}
			}
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change stored configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration with keys masked",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			ui.NewConsole(a.stdout, a.stderr).Config(cfg.Source(), cfg.Settings())
			return nil
		},
	}

	setKey := &cobra.Command{
		Use:   "set-key <provider> <api-key>",
		Short: "Store an API key",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetAPIKey(a.configPath, args[0], args[1]); err != nil {
				return err
			}
			ui.NewConsole(a.stdout, a.stderr).Saved(fmt.Sprintf("API key for %s saved to %s", args[0], a.savePath()))
			return nil
		},
	}

	setDefault := &cobra.Command{
		Use:   "set-default <provider>",
		Short: "Set the preferred provider",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetDefaultProvider(a.configPath, args[0]); err != nil {
				return err
			}
			ui.NewConsole(a.stdout, a.stderr).Saved(fmt.Sprintf("default provider set to %s", args[0]))
			return nil
		},
	}

	setModel := &cobra.Command{
		Use:   "set-model <provider> <model>",
		Short: "Set a provider's default model",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetDefaultModel(a.configPath, args[0], args[1]); err != nil {
				return err
			}
			ui.NewConsole(a.stdout, a.stderr).Saved(fmt.Sprintf("default model for %s set to %s", args[0], args[1]))
			return nil
		},
	}

	cmd.AddCommand(show, setKey, setDefault, setModel)
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  exactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			ui.PrintBanner(a.stdout, version, commit)
		},
	}
}

func (a *app) savePath() string {
	if a.configPath != "" {
		return a.configPath
	}
	return config.DefaultPath()
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
