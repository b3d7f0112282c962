package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fwojciec/workflow"
	"github.com/fwojciec/workflow/chat"
	"github.com/fwojciec/workflow/exec"
	"github.com/fwojciec/workflow/gemini"
	"github.com/fwojciec/workflow/sqlite"
	"github.com/fwojciec/workflow/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the resolved configuration to subcommands. Environment values
// are read once, in newRootCmd, and passed down as values.
type app struct {
	getenv     func(string) string
	configFile string
	cfg        Config
	logger     *slog.Logger
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	a := &app{getenv: getenv}

	root := &cobra.Command{
		Use:   "workflow",
		Short: "Project setup checklist with AI assistance",
		Long: `workflow tracks the setup tasks of a new software project and pairs
each task with an AI architect chat. Persona agents are available for
free-form conversations.

Examples:
  workflow serve                  # web UI on serve.addr
  workflow chat --item 1          # chat about a task in the terminal
  workflow chat --agent Lyra      # chat with a persona
  workflow render notes.md        # print rendered reply nodes`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/workflow/config.yaml)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newServeCmd(a),
		newChatCmd(a),
		newRenderCmd(a),
		newItemsCmd(a),
		newHistoryCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	v := viper.New()
	if err := v.BindPFlag("log.level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return err
	}
	cfg, err := loadConfig(v, a.configFile, a.getenv)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// stores opens the database and the item and history stores on top of it.
// The caller closes the returned DB.
func (a *app) stores() (*sqlite.DB, *store.Items, *store.Histories, error) {
	db, err := sqlite.Open(a.cfg.DB.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	return db, store.NewItems(db, a.logger), store.NewHistories(db, a.logger), nil
}

// client builds the model client. A missing API key is not an error here;
// calls fail with a message the user sees in place of a reply.
func (a *app) client(ctx context.Context) (*gemini.Client, error) {
	client, err := gemini.New(ctx, a.cfg.Gemini.APIKey,
		gemini.WithModel(a.cfg.Gemini.Model),
		gemini.WithImageModel(a.cfg.Gemini.ImageModel),
	)
	if err != nil {
		return nil, err
	}
	if a.cfg.Gemini.APIKey == "" {
		a.logger.Warn("gemini API key not set; AI features will report the missing key")
	}
	return client, nil
}

func (a *app) runner(provider workflow.Provider, histories workflow.HistoryStore) *chat.Runner {
	return chat.New(provider, histories,
		chat.WithModel(a.cfg.Gemini.Model),
		chat.WithLogger(a.logger),
	)
}

func (a *app) speaker() *exec.Speaker {
	sc := a.cfg.Speech
	opts := []exec.Option{exec.WithLogger(a.logger)}
	if sc.VoiceFlag != "" {
		opts = append(opts, exec.WithVoiceFlag(sc.VoiceFlag))
	}
	if sc.MaleVoice != "" {
		opts = append(opts, exec.WithVoice(workflow.GenderMale, sc.MaleVoice))
	}
	if sc.FemaleVoice != "" {
		opts = append(opts, exec.WithVoice(workflow.GenderFemale, sc.FemaleVoice))
	}
	return exec.NewSpeaker(strings.Fields(sc.Command), opts...)
}
