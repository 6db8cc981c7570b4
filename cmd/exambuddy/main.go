package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zenark/exambuddy/internal/auth"
	"github.com/zenark/exambuddy/internal/config"
	"github.com/zenark/exambuddy/internal/engine"
	"github.com/zenark/exambuddy/internal/llm"
	"github.com/zenark/exambuddy/internal/profile"
	"github.com/zenark/exambuddy/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "exambuddy",
		Short: "LLM study coach for competitive-exam students",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Developer convenience; a missing .env is fine.
			_ = godotenv.Load()
		},
	}

	chat := chatCmd()
	root.AddCommand(chat, exportCmd())

	// Make "chat" the default when no subcommand is given.
	root.RunE = chat.RunE
	root.Flags().AddFlagSet(chat.Flags())

	return root
}

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive coaching session",
		RunE:  runChat,
	}
	f := cmd.Flags()
	f.StringP("student", "s", "", "Student identifier (24-char hex)")
	f.String("llm-provider", "openai", "Model provider (openai, anthropic)")
	f.String("llm-model", "", "Model name (empty = provider default)")
	f.String("llm-base-url", "", "OpenAI-compatible API base URL override")
	f.Duration("llm-timeout", 0, "Per-call model timeout (0 = 30s default)")
	f.String("db-name", config.DefaultDBName, "MongoDB database name")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a session transcript as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("session", "", "Session identifier (required)")
	f.String("db-name", config.DefaultDBName, "MongoDB database name")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")

	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EXAMBUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

func runChat(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close(context.Background()) }()

	client, err := llm.New(cfg.LLM.Provider, cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
	if err != nil {
		return fmt.Errorf("create LLM client: %w", err)
	}
	slog.Info("model client ready", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)

	eng := engine.New(client, db, cfg.LLM.Timeout, cfg.LLM.Temperature, nil)
	mgr := auth.New(db, eng, nil)

	in := bufio.NewScanner(os.Stdin)
	out := cmd.OutOrStdout()

	studentID := v.GetString("student")
	for studentID == "" {
		fmt.Fprint(out, "student id: ")
		if !in.Scan() {
			return in.Err()
		}
		studentID = strings.TrimSpace(in.Text())
	}

	sess, err := mgr.Login(ctx, studentID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrBadStudentID):
			return fmt.Errorf("student id %q is not a 24-character hex identifier", studentID)
		case errors.Is(err, auth.ErrUnknownStudent):
			return fmt.Errorf("no student record for %q", studentID)
		}
		return fmt.Errorf("login: %w", err)
	}
	fmt.Fprintf(out, "session %s (type /quit to leave, /logout to close)\n", sess.SessionID)

	var collector *profile.Collector
	if !sess.ProfileComplete {
		collector = profile.NewCollector(db, sess.SessionID, sess.StudentID, nil)
		if prompt, ok := collector.Start(ctx, sess.Conversation); ok {
			fmt.Fprintln(out, prompt)
		}
	}

	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())

		switch line {
		case "":
			continue
		case "/quit":
			return nil
		case "/logout":
			if err := mgr.Logout(ctx, sess.SessionID); err != nil {
				slog.Warn("logout", "error", err)
			}
			fmt.Fprintln(out, "session closed, see you next time")
			return nil
		case "/clear":
			eng.ClearSession(sess.SessionID)
			fmt.Fprintln(out, "conversation memory cleared")
			continue
		case "/sessions":
			fmt.Fprintln(out, strings.Join(eng.Sessions(), "\n"))
			continue
		}

		if collector != nil && !collector.Done() {
			reply, done := collector.HandleInput(ctx, line)
			fmt.Fprintln(out, reply)
			if done {
				collector = nil
			}
			continue
		}

		studentContext, err := db.Context(ctx, sess.SessionID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			slog.Warn("load context", "session_id", sess.SessionID, "error", err)
		}
		fmt.Fprintln(out, eng.Respond(ctx, sess.SessionID, line, studentContext, sess.Language))
	}
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Export needs the store only, not the model credential.
	uri, err := config.MongoURI()
	if err != nil {
		return err
	}
	dbName := v.GetString("db-name")
	if dbName == "" {
		dbName = config.DefaultDBName
	}

	db, err := store.New(ctx, uri, dbName)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close(context.Background()) }()

	export, err := db.ExportTranscript(ctx, v.GetString("session"))
	if err != nil {
		return fmt.Errorf("export transcript: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}
