package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/musicmuse/internal/server"
	"github.com/desertthunder/musicmuse/internal/session"
	"github.com/desertthunder/musicmuse/internal/shared"
	"github.com/urfave/cli/v3"
)

// Login runs the implicit-grant flow: start the local callback server, open
// the browser, wait for the forwarded redirect fragment, and bootstrap the
// session from it.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	if r.config.Credentials.Spotify.ClientID == "" {
		return fmt.Errorf("%w: Spotify client_id must be set in config.toml or SPOTIFY_CLIENT_ID", shared.ErrMissingCredentials)
	}

	fragment, err := r.captureFragment(ctx)
	if err != nil {
		return err
	}

	if err := r.engine.Login(ctx, fragment); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	r.writePlainln("✓ Logged in to Spotify")
	if user := r.state.User(); user != nil {
		r.writePlain("Welcome, %s!\n", user.DisplayName)
	}

	if cmd.Bool("tui") {
		return r.TUI(ctx, cmd)
	}

	r.writePlain("\nTry: musicmuse tui\n")
	return nil
}

// captureFragment serves the authorization redirect locally and returns the
// raw location fragment once the callback page forwards it.
func (r *Runner) captureFragment(ctx context.Context) (string, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := r.client.AuthURL(state)
	handler := server.NewCaptureHandler()

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: handler.Router(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.FragmentResult

	select {
	case result = <-handler.Result():
		// Got the forwarded fragment
	case err := <-serverErrors:
		return "", fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return "", fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return "", fmt.Errorf("authorization failed: %w", result.Error())
	}

	params := session.ParseFragment(result.Fragment)
	if params["error"] != "" {
		return "", fmt.Errorf("authorization denied: %s", params["error"])
	}
	if params["state"] != state {
		return "", fmt.Errorf("state mismatch in authorization redirect")
	}

	return result.Fragment, nil
}
