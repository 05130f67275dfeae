package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gonzago/gonzago/internal/chatbot"
	"github.com/gonzago/gonzago/internal/session"
	"github.com/gonzago/gonzago/internal/transcript"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	var fv flagValues
	cmd := &cobra.Command{
		Use:          "gonzago",
		Short:        "Terminal chat client for the Gonzago Shakespeare assistant",
		Version:      fmt.Sprintf("%s (%s)", version, commit),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, fv)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	bindFlags(cmd, &fv)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gonzago: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, stdin io.Reader, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	plain := cfg.plain || !isTerminal(stdin) || !isTerminal(stdout)
	logger, closeLog, err := newLogger(cfg, plain, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	client := chatbot.New(cfg.baseURL,
		chatbot.WithTimeout(cfg.timeout),
		chatbot.WithLogger(logger.With().Str("component", "chatbot").Logger()),
	)
	sess := session.New(logger)
	logger.Info().
		Str("session_id", sess.ID()).
		Str("base_url", client.BaseURL()).
		Dur("timeout", cfg.timeout).
		Bool("plain", plain).
		Msg("session started")

	if plain {
		err = runPlain(ctx, sess, client, stdin, stdout)
	} else {
		err = runTUI(ctx, cfg, sess, client, logger)
	}

	if exportErr := exportTranscript(cfg.transcriptOut, sess); exportErr != nil {
		logger.Error().Err(exportErr).Msg("transcript export failed")
		if err == nil {
			err = exportErr
		}
	}
	logger.Info().Int("turns", sess.Transcript().Len()).Msg("session ended")
	return err
}

func runTUI(ctx context.Context, cfg appConfig, sess *session.Session, client *chatbot.Client, logger zerolog.Logger) error {
	opts := []tea.ProgramOption{tea.WithMouseCellMotion(), tea.WithContext(ctx)}
	if cfg.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(newModel(ctx, cfg, sess, client, client, logger), opts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "tui")
	}
	return nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newLogger picks the log sink. The full-screen UI owns the terminal, so
// without a log file its logs are discarded.
func newLogger(cfg appConfig, plain bool, stderr io.Writer) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(cfg.logLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	noop := func() {}

	switch {
	case cfg.logFile != "":
		if dir := filepath.Dir(cfg.logFile); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return zerolog.Nop(), noop, errors.Wrap(err, "create log dir")
			}
		}
		f, err := os.OpenFile(cfg.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), noop, errors.Wrap(err, "open log file")
		}
		logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
		return logger, func() { _ = f.Close() }, nil
	case plain:
		out := zerolog.ConsoleWriter{Out: stderr, NoColor: !isTerminal(stderr)}
		// Plain mode keeps stderr quiet below warn unless asked otherwise.
		if cfg.logLevel == "info" {
			level = zerolog.WarnLevel
		}
		return zerolog.New(out).Level(level).With().Timestamp().Logger(), noop, nil
	default:
		return zerolog.New(io.Discard), noop, nil
	}
}

// exportTranscript writes the session transcript to path. The format follows
// the file extension. An empty path is a no-op.
func exportTranscript(path string, sess *session.Session) error {
	if path == "" {
		return nil
	}
	exporter, err := transcript.NewExporter(transcript.FormatForPath(path))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create transcript file")
	}
	doc := transcript.NewDocument(sess.ID(), sess.Transcript())
	if err := exporter.Export(doc, f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "export transcript to %s", path)
	}
	return errors.Wrap(f.Close(), "close transcript file")
}
