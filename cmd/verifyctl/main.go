// File: cmd/verifyctl/main.go

// verifyctl walks the player verification workflow against a running API
// server. Useful for poking at a dev instance without the web client.
//
//	VERIFY_TOKEN=<jwt> verifyctl -base http://localhost:8080 status
//	verifyctl start
//	verifyctl confirm-email 123456
//	verifyctl send-phone +15550001111
//	verifyctl confirm-phone 123456
//	verifyctl submit -goals 12 -assists 5 -gpa 3.4 -positions CM,CDM -files urls.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jucoreach/jucoreach/pkg/verifyflow"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	base := flag.String("base", "http://localhost:8080", "API base URL")
	flag.Parse()

	token := os.Getenv("VERIFY_TOKEN")
	if token == "" {
		log.Fatal("VERIFY_TOKEN not set in environment")
	}

	args := flag.Args()
	if len(args) == 0 {
		log.Fatal("usage: verifyctl [-base URL] <status|start|confirm-email|send-phone|confirm-phone|submit> [args]")
	}

	client := verifyflow.NewClient(*base, verifyflow.StaticToken(token), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch args[0] {
	case "status":
		err = printStatus(ctx, client)
	case "start":
		err = client.Start(ctx)
	case "confirm-email":
		err = client.ConfirmEmail(ctx, arg(args, 1, "code"))
	case "send-phone":
		err = client.SendPhoneCode(ctx, arg(args, 1, "phone"))
	case "confirm-phone":
		err = client.ConfirmPhone(ctx, arg(args, 1, "code"))
	case "submit":
		err = submit(ctx, client, args[1:])
	default:
		log.Fatalf("unknown command %q", args[0])
	}

	if err != nil {
		if ve, ok := err.(*verifyflow.Error); ok && ve.Kind == verifyflow.KindRateLimited {
			log.Fatalf("rate limited: try again in %d seconds", ve.RetryAfter)
		}
		log.Fatalf("%s failed: %v", args[0], err)
	}
	fmt.Println("OK")
}

func arg(args []string, i int, name string) string {
	if len(args) <= i {
		log.Fatalf("missing %s argument", name)
	}
	return args[i]
}

func printStatus(ctx context.Context, client *verifyflow.Client) error {
	state, err := client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("status:          %s (step %d)\n", state.Status, state.Step)
	fmt.Printf("email confirmed: %v (resend in %ds)\n", state.EmailConfirmed, state.EmailRetryAfter)
	fmt.Printf("phone confirmed: %v (resend in %ds)\n", state.PhoneConfirmed, state.PhoneRetryAfter)
	if state.Review != nil {
		fmt.Printf("review:          %s - %s\n", state.Review.Decision, state.Review.Notes)
	}
	return nil
}

func submit(ctx context.Context, client *verifyflow.Client, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	goals := fs.Int("goals", 0, "season goals")
	assists := fs.Int("assists", 0, "season assists")
	apps := fs.Int("apps", 0, "appearances")
	minutes := fs.Int("minutes", 0, "minutes played")
	gpa := fs.Float64("gpa", 0, "GPA")
	positions := fs.String("positions", "", "comma separated positions")
	filesPath := fs.String("files", "", "file with one supporting URL per line")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var files []string
	if *filesPath != "" {
		raw, err := os.ReadFile(*filesPath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", *filesPath, err)
		}
		files = verifyflow.SplitSupportingFiles(string(raw))
	}

	snapshot := verifyflow.Snapshot{
		Stats: verifyflow.SeasonLine{
			Goals:         *goals,
			Assists:       *assists,
			Appearances:   *apps,
			MinutesPlayed: *minutes,
		},
		GPA:       *gpa,
		Positions: splitPositions(*positions),
	}
	return client.SubmitStats(ctx, snapshot, true, files)
}

func splitPositions(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
