package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lendpilot/internal/config"
	"lendpilot/internal/eventbus"
	"lendpilot/internal/pipeline"
	"lendpilot/internal/tool"
)

var (
	configPath string
	threadID   string
	tempFiles  []string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "lendpilot",
	Short: "lendpilot - lending copilot over the OpenAI Assistants API",
}

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Run one conversation turn and print the assistant's reply",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered toolset",
	RunE:  runTools,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default lendpilot.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace run lifecycle events")

	askCmd.Flags().StringVar(&threadID, "thread", "", "continue an existing thread")
	askCmd.Flags().StringSliceVar(&tempFiles, "file", nil, "local file to index before asking (repeatable)")

	rootCmd.AddCommand(askCmd, toolsCmd)
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}

func runAsk(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if len(tempFiles) > 0 {
		cfg.Assistant.TempFiles = tempFiles
	}

	bus := eventbus.New()
	if verbose {
		bus.SubscribeAll(func(e eventbus.Event) {
			log.Debug().Str("topic", string(e.Topic)).Interface("payload", e.Payload).Msg("event")
		})
	}

	ctx := cmd.Context()
	p, err := pipeline.New(ctx, cfg, pipeline.WithBus(bus), pipeline.WithLogger(log))
	if err != nil {
		return err
	}

	var reply string
	if threadID != "" {
		reply, err = p.AskInThread(ctx, args[0], threadID)
	} else {
		reply, err = p.Ask(ctx, args[0])
	}
	if err != nil {
		return err
	}

	fmt.Println(reply)
	return nil
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	reg, err := tool.Default(cfg.Docs.Dir)
	if err != nil {
		return err
	}
	for _, t := range reg.AssistantTools() {
		switch {
		case t.OfCodeInterpreter != nil:
			fmt.Println("code_interpreter (built-in)")
		case t.OfFileSearch != nil:
			fmt.Println("file_search (built-in)")
		case t.OfFunction != nil:
			fmt.Printf("%s - %s\n", t.OfFunction.Function.Name, t.OfFunction.Function.Description.Value)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
