// Package main provides the user CLI entry point for testing.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/cratedig/internal/api/connect"
)

var (
	app    = kingpin.New("cratedig-usercli", "cratedig RPC client for testing")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "API bearer token").Envar("CRATEDIG_API_TOKEN").String()

	// suggest command
	suggestCmd   = app.Command("suggest", "Suggest catalog tracks for a partial query")
	suggestQuery = suggestCmd.Arg("query", "Partial query").Required().Strings()

	// search command
	searchCmd   = app.Command("search", "Find the producers of a song and their other songs")
	searchQuery = searchCmd.Arg("query", `Query as "Track by Artist"`).Required().Strings()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	client := apiconnect.NewProducerClient(
		http.DefaultClient,
		*server,
		connect.WithInterceptors(apiconnect.NewTokenInterceptor(*token)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case suggestCmd.FullCommand():
		suggest(ctx, client, strings.Join(*suggestQuery, " "))
	case searchCmd.FullCommand():
		search(ctx, client, strings.Join(*searchQuery, " "))
	}
}

func suggest(ctx context.Context, client *apiconnect.ProducerClient, query string) {
	resp, err := client.Suggest(ctx, connect.NewRequest(&apiconnect.SuggestRequest{Query: query}))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if len(resp.Msg.Suggestions) == 0 {
		fmt.Println("No suggestions.")
		return
	}
	for i, s := range resp.Msg.Suggestions {
		fmt.Printf("%d. %s\n", i+1, s.Label)
		if s.Track != nil && s.Track.URL != "" {
			fmt.Printf("   %s\n", s.Track.URL)
		}
	}
}

func search(ctx context.Context, client *apiconnect.ProducerClient, query string) {
	stream, err := client.Search(ctx, connect.NewRequest(&apiconnect.SearchRequest{Query: query}))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for stream.Receive() {
		printEvent(stream.Msg())
	}

	if err := stream.Err(); err != nil {
		fmt.Printf("Stream error: %v\n", err)
		os.Exit(1)
	}
}

func printEvent(ev *apiconnect.SearchEvent) {
	switch ev.Type {
	case "seed_resolved":
		fmt.Printf("Spotify: %s by %s\n", ev.Seed.Name, strings.Join(ev.Seed.Artists, ", "))
		if ev.Seed.URL != "" {
			fmt.Printf("  %s\n", ev.Seed.URL)
		}
	case "song_resolved":
		fmt.Printf("Genius:  %s by %s (song %d)\n", ev.Song.Title, ev.Song.Artist, ev.Song.ID)
	case "producers_found":
		fmt.Printf("Producers: %s\n", strings.Join(ev.Producers, ", "))
	case "producer_started":
		fmt.Printf("  searching %s...\n", ev.Producer)
	case "producer_done":
		printSection(ev.Section)
	case apiconnect.EventFinished:
		fmt.Printf("\n[%s] %s (run %s, %dms)\n", ev.Outcome, ev.Message, ev.RunID, ev.ElapsedMs)
	default:
		fmt.Printf("=== UNKNOWN EVENT (%s) ===\n", ev.Type)
	}
}

func printSection(s *apiconnect.SectionInfo) {
	if s == nil {
		return
	}
	fmt.Printf("\n=== %s ===\n", s.Producer)
	fmt.Printf("  %s\n", s.URL)
	if s.Code != "" {
		fmt.Printf("  %s\n", s.Message)
		return
	}
	for _, e := range s.Entries {
		if e.Resolved && e.Track != nil {
			fmt.Printf("  • %s by %s  %s\n", e.Title, e.Artist, e.Track.URL)
		} else {
			fmt.Printf("  • %s by %s  (%s)\n", e.Title, e.Artist, e.Message)
		}
	}
}
