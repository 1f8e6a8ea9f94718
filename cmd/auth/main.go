// Package main obtains a Spotify refresh token for cratedig.
//
// The client-credentials flow is enough for catalog search, so this is only
// needed when searches should run on behalf of a user account.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

var (
	app          = kingpin.New("cratedig-auth", "Fetch a Spotify refresh token for cratedig")
	clientID     = app.Flag("client-id", "Spotify Client ID").Envar("SPOTIFY_CLIENT_ID").Required().String()
	clientSecret = app.Flag("client-secret", "Spotify Client Secret").Envar("SPOTIFY_CLIENT_SECRET").Required().String()
	redirectURI  = app.Flag("redirect-uri", "Registered redirect URI").Envar("REDIRECT_URI").Default("http://127.0.0.1:8888/callback").String()
	waitFor      = app.Flag("timeout", "How long to wait for the browser callback").Default("5m").Duration()
)

type callbackResult struct {
	token *oauth2.Token
	err   error
}

func main() {
	_ = godotenv.Load()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cratedig-auth: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	redirect, err := url.Parse(*redirectURI)
	if err != nil || redirect.Host == "" {
		return fmt.Errorf("invalid redirect URI %q", *redirectURI)
	}
	path := redirect.Path
	if path == "" {
		path = "/"
	}
	port := redirect.Port()
	if port == "" {
		port = "80"
	}

	auth := spotifyauth.New(
		spotifyauth.WithRedirectURL(*redirectURI),
		spotifyauth.WithClientID(*clientID),
		spotifyauth.WithClientSecret(*clientSecret),
		spotifyauth.WithScopes(spotifyauth.ScopeUserLibraryRead),
	)
	state := uuid.NewString()
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(path, callbackHandler(auth, state, results))

	listener, err := net.Listen("tcp", net.JoinHostPort("", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", port, err)
	}
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = server.Serve(listener) }()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}()

	fmt.Printf("Open this URL and approve access:\n\n  %s\n\nListening for the callback on %s ...\n",
		auth.AuthURL(state), *redirectURI)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *waitFor)
	defer cancel()

	select {
	case <-ctx.Done():
		return fmt.Errorf("no callback received: %w", ctx.Err())
	case res := <-results:
		if res.err != nil {
			return res.err
		}
		printToken(res.token)
		return nil
	}
}

// callbackHandler exchanges the authorization code and reports the outcome
// once. Later requests to the callback path are ignored.
func callbackHandler(auth *spotifyauth.Authenticator, state string, results chan<- callbackResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.FormValue("state"); got != state {
			http.Error(w, "unexpected state", http.StatusForbidden)
			return
		}

		token, err := auth.Token(r.Context(), state, r)
		if err != nil {
			http.Error(w, "token exchange failed", http.StatusForbidden)
			report(results, callbackResult{err: fmt.Errorf("token exchange failed: %w", err)})
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "cratedig is authorized. Back to the terminal.")
		report(results, callbackResult{token: token})
	}
}

func report(results chan<- callbackResult, res callbackResult) {
	select {
	case results <- res:
	default:
	}
}

func printToken(token *oauth2.Token) {
	fmt.Printf(`
Refresh token:
  %[1]s

Put it in config.yaml under spotify.refresh_token, or export it:
  export SPOTIFY_REFRESH_TOKEN=%[1]q
`, token.RefreshToken)
}
