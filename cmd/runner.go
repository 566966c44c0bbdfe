package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicmuse/internal/models"
	"github.com/desertthunder/musicmuse/internal/repositories"
	"github.com/desertthunder/musicmuse/internal/services"
	"github.com/desertthunder/musicmuse/internal/session"
	"github.com/desertthunder/musicmuse/internal/shared"
	"github.com/desertthunder/musicmuse/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	client  services.Client
	state   *session.State
	engine  *tasks.HistoryEngine
	journal *repositories.PlaylistRepository
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Client  services.Client
	State   *session.State
	Engine  *tasks.HistoryEngine
	Journal *repositories.PlaylistRepository
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.State == nil {
		opts.State = session.NewState()
	}
	if opts.Engine == nil {
		opts.Engine = tasks.NewHistoryEngine(opts.Client, opts.State, tasks.EngineOpts{Logger: opts.Logger})
	}

	return &Runner{
		config:  opts.Config,
		client:  opts.Client,
		state:   opts.State,
		engine:  opts.Engine,
		journal: opts.Journal,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// SetLogger swaps the runner's and engine's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.engine.SetLogger(l)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		loginCommand, nowPlayingCommand, recentCommand, topCommand, playlistCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ensureAuth establishes a session for one-shot commands. A token passed via
// --token or SPOTIFY_ACCESS_TOKEN wins; without one the caller must have run
// the login flow in this process.
func (r *Runner) ensureAuth(ctx context.Context, cmd *cli.Command) error {
	if r.state.LoggedIn() {
		return nil
	}

	token := cmd.String("token")
	if token == "" {
		token = os.Getenv("SPOTIFY_ACCESS_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("%w: pass --token or set SPOTIFY_ACCESS_TOKEN", shared.ErrNotAuthenticated)
	}

	if err := r.client.SetAccessToken(ctx, token); err != nil {
		return err
	}
	r.state.SetLoggedIn(true)

	if user, err := r.client.UserProfile(ctx); err != nil {
		r.logger.Warn("failed to fetch user profile", "error", err)
	} else {
		r.state.SetUser(&models.User{ID: user.ID, DisplayName: user.DisplayName})
	}

	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
