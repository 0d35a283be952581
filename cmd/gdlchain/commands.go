package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brunokim/gdl-engine/errors"
	"github.com/brunokim/gdl-engine/games"
	"github.com/brunokim/gdl-engine/gdl"
	"github.com/brunokim/gdl-engine/reasoner"
)

type options struct {
	configPath string
	verbose    bool
	planner    string
	maxRounds  int
	forms      []string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "gdlchain",
		Short:         "Forward-chains GDL rules with constraint-based assignment plans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML file with reasoner settings (max_rounds, planner)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log planning and evaluation to stderr")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the built-in games",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range games.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	runCmd := &cobra.Command{
		Use:       "run <game>",
		Short:     "Evaluate a built-in game to its fixpoint",
		Args:      cobra.ExactArgs(1),
		ValidArgs: games.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGame(cmd, opts, args[0])
		},
	}
	runCmd.Flags().StringVar(&opts.planner, "planner", "", "Plan factory: dmst, legacy or odometer (overrides config)")
	runCmd.Flags().IntVar(&opts.maxRounds, "max-rounds", 0, "Maximum semi-naive rounds (overrides config)")
	runCmd.Flags().StringSliceVar(&opts.forms, "form", nil, "Only print sentences of these relation names")

	rootCmd.AddCommand(listCmd, runCmd)
	return rootCmd
}

// loadConfig reads the config file, if any, over the defaults. Flags take
// precedence over the file.
func loadConfig(opts *options) (reasoner.Config, error) {
	config := reasoner.DefaultConfig()
	if opts.configPath != "" {
		bs, err := os.ReadFile(opts.configPath)
		if err != nil {
			return config, errors.New("reading config: %v", err)
		}
		if err := yaml.Unmarshal(bs, &config); err != nil {
			return config, errors.New("parsing config %s: %v", opts.configPath, err)
		}
	}
	if opts.planner != "" {
		config.Planner = opts.planner
	}
	if opts.maxRounds > 0 {
		config.MaxRounds = opts.maxRounds
	}
	return config, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(discardHandler{})
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func runGame(cmd *cobra.Command, opts *options, name string) error {
	config, err := loadConfig(opts)
	if err != nil {
		return err
	}
	pool := gdl.NewPool()
	game, ok := games.Lookup(name, pool)
	if !ok {
		return errors.New("unknown game %q, want one of %v", name, games.Names())
	}
	e := games.Evaluator{
		Pool:   pool,
		Config: config,
		Logger: newLogger(cmd.ErrOrStderr(), opts.verbose),
	}
	facts, err := e.Evaluate(cmd.Context(), game)
	if err != nil {
		return err
	}
	printSentences(cmd.OutOrStdout(), facts, opts.forms)
	return nil
}

// printSentences writes one block per form, ordered by form, with sentences
// sorted by their text.
func printSentences(w io.Writer, facts *reasoner.SentenceSet, names []string) {
	keep := make(map[string]bool)
	for _, name := range names {
		keep[name] = true
	}
	forms := append([]gdl.Form(nil), facts.Forms()...)
	sort.Slice(forms, func(i, j int) bool { return forms[i].String() < forms[j].String() })
	for _, form := range forms {
		if len(keep) > 0 && !keep[form.Name] {
			continue
		}
		ss := facts.Sentences(form)
		lines := make([]string, len(ss))
		for i, s := range ss {
			lines[i] = s.String()
		}
		sort.Strings(lines)
		fmt.Fprintf(w, "%% %v (%d)\n", form, len(lines))
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
	}
}
