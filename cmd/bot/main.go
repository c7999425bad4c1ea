package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"github.com/planpal/planpal/config"
	"github.com/planpal/planpal/internal/bot"
	"github.com/planpal/planpal/internal/calendar"
	caldavclient "github.com/planpal/planpal/internal/clients/caldav"
	googleclient "github.com/planpal/planpal/internal/clients/google"
	"github.com/planpal/planpal/internal/scheduler"
	"github.com/planpal/planpal/internal/service"
	"github.com/planpal/planpal/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load .env first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "planpal",
		Usage: "Telegram-chatbot die agenda-events aanmaakt uit Nederlandse tekst.",
		Commands: []*cli.Command{
			runCommand(),
			authCommand(),
			calendarsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("planpal: %v", err)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Start the Telegram bot.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := storage.New(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("init storage: %w", err)
			}
			defer store.Close()

			backend, creds := buildBackend(cfg, store)

			sessions := service.NewSessionService(store, backend, creds, cfg.Timezone)

			tgBot, err := bot.New(cfg, store, sessions)
			if err != nil {
				return fmt.Errorf("init bot: %w", err)
			}

			if err := tgBot.SetupWebhook(); err != nil {
				return fmt.Errorf("setup webhook: %w", err)
			}

			sched := scheduler.New(cfg, store, sessions)
			sched.SetSender(tgBot)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			go func() {
				if err := sched.Start(ctx); err != nil {
					log.Printf("Scheduler error: %v", err)
				}
			}()

			go func() {
				if err := tgBot.Start(ctx); err != nil {
					log.Printf("Bot error: %v", err)
				}
			}()

			log.Println("PlanPal started")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Println("Shutting down...")

			cancel()
			sched.Stop()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()

			if err := tgBot.Stop(shutdownCtx); err != nil {
				log.Printf("Error stopping bot: %v", err)
			}

			log.Println("PlanPal stopped")
			return nil
		},
	}
}

// buildBackend picks the configured calendar client and the matching
// credential source.
func buildBackend(cfg *config.Config, store *storage.Storage) (calendar.Backend, service.CredentialSource) {
	if cfg.CalendarBackend == config.BackendCalDAV {
		client := caldavclient.NewClient(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword,
			cfg.CalDAVCalendarPath, cfg.Timezone)
		return client, service.StaticCredentials{Available: client.IsConfigured()}
	}

	oauthCfg := googleclient.OAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret)
	return googleclient.NewClient(cfg.Timezone), service.NewGoogleCredentials(store, oauthCfg)
}

func calendarsCommand() *cli.Command {
	return &cli.Command{
		Name:  "calendars",
		Usage: "List CalDAV calendar paths to pick CALDAV_CALENDAR_PATH from.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			client := caldavclient.NewClient(cfg.CalDAVURL, cfg.CalDAVUsername,
				cfg.CalDAVPassword, cfg.CalDAVCalendarPath, cfg.Timezone)
			if !client.IsConfigured() {
				return fmt.Errorf("CALDAV_USERNAME and CALDAV_PASSWORD are required")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			paths, err := client.DiscoverCalendars(ctx)
			if err != nil {
				return fmt.Errorf("discover calendars: %w", err)
			}

			if len(paths) == 0 {
				fmt.Println("No calendars found")
				return nil
			}
			for _, p := range paths {
				fmt.Println(p)
			}
			return nil
		},
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Link a chat to Google Calendar via the OAuth code flow.",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:     "chat-id",
				Usage:    "Telegram chat ID to store the token for",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
				return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
			}

			store, err := storage.New(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("init storage: %w", err)
			}
			defer store.Close()

			oauthCfg := googleclient.OAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret)

			authURL := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code:\n%v\n", authURL)

			fmt.Print("Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := oauthCfg.Exchange(context.Background(), authCode)
			if err != nil {
				return fmt.Errorf("exchange code: %w", err)
			}

			chatID := c.Int64("chat-id")
			if err := store.SaveGoogleToken(chatID, token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}

			fmt.Printf("Token saved for chat %d\n", chatID)
			return nil
		},
	}
}
