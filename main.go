package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trendarr/internal/application/usecase"
	"trendarr/internal/infrastructure/config"
	"trendarr/internal/infrastructure/discord"
	"trendarr/internal/infrastructure/ignore"
	"trendarr/internal/infrastructure/radarr"
	"trendarr/internal/infrastructure/status"
	"trendarr/internal/infrastructure/tmdb"
	"trendarr/internal/infrastructure/trakt"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var configPath string
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}
	hour, minute, err := usecase.ParseCheckTime(cfg.CheckTime)
	if err != nil {
		return err
	}

	bot, err := discord.New(cfg.Discord.Token, cfg.Discord.ChannelID)
	if err != nil {
		return err
	}
	if err := bot.Open(); err != nil {
		return err
	}
	defer func() { _ = bot.Close() }()

	ignores := ignore.NewStore(cfg.IgnoreFile)
	library := radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, cfg.Radarr.RootFolder, cfg.Radarr.QualityProfile)

	var trailers usecase.TrailerResolver
	if cfg.TMDB.APIKey != "" {
		trailers = tmdb.NewClient(cfg.TMDB.URL, cfg.TMDB.APIKey)
	}

	watch := &usecase.WatchService{
		Feed:          trakt.NewClient(cfg.Trakt.URL, cfg.Trakt.ClientID),
		Library:       library,
		Trailers:      trailers,
		Ignores:       ignores,
		Channel:       bot,
		MentionUserID: cfg.Discord.MentionUserID,
	}

	dispatch := &usecase.DispatchService{
		Library:   library,
		Ignores:   ignores,
		Channel:   bot,
		BotUserID: bot.UserID(),
	}
	bot.BindDispatcher(dispatch)

	tracker := status.NewTracker()
	go func() {
		if err := status.NewServer(tracker).Start(cfg.StatusAddr); err != nil {
			log.Printf("status server: %v", err)
		}
	}()

	scheduler := &usecase.Scheduler{
		CheckHour:   hour,
		CheckMinute: minute,
		Location:    loc,
		Run: func(ctx context.Context) error {
			result, err := watch.RunPass(ctx)
			tracker.RecordPass(result, err)
			return err
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("logged in as %s; daily check at %02d:%02d %s", bot.UserID(), hour, minute, cfg.Timezone)
	scheduler.Loop(ctx)

	log.Print("shutting down")
	return nil
}
