// Command simulate plays a full SMØR evening with bots only and prints the
// narrative and the final leaderboard.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"smor/internal/app"
	"smor/internal/bot"
	"smor/internal/catalog"
	"smor/internal/config"
	"smor/internal/domain"
	"smor/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "simulate:", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, logging.ParseLevel(settings.LogLevel))

	cfg, err := settings.Resolve()
	if err != nil {
		return err
	}
	level, err := bot.ParseLevel(cfg.BotLevel)
	if err != nil {
		return err
	}
	cat, warnings, err := catalog.Default()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn("catalog: %s", w)
	}

	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Info("simulating %d players at level %s (seed %d)", len(settings.Players), level, seed)

	participants := make([]app.Participant, 0, len(settings.Players))
	for _, name := range settings.Players {
		agent, err := bot.NewAgent(level, rand.New(rand.NewSource(rng.Int63())))
		if err != nil {
			return err
		}
		participants = append(participants, app.Participant{
			Player:  domain.NewPlayer("", name, false),
			Decider: agent,
		})
	}

	session, err := app.NewSession(app.SessionConfig{
		Options: app.Options{
			Rules:        cfg.Rules,
			Pacing:       cfg.Pacing(),
			Catalog:      cat,
			Participants: participants,
			Rand:         rng,
			Logger:       logger,
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := session.Start(ctx); err != nil {
		return err
	}

	for ev := range session.Events() {
		switch ev.Kind {
		case app.EventLog:
			fmt.Println(ev.Payload.(domain.LogEntry).Message)
		case app.EventGameEnded:
			printLeaderboard(ev.Payload.(app.GameEndedPayload).Result)
		}
	}
	_, err = session.Wait()
	return err
}

func printLeaderboard(res app.Result) {
	fmt.Println()
	fmt.Println("RESULTATER")
	for _, s := range res.Leaderboard {
		fmt.Printf("%d. %-12s %3d minnepoeng  %.1f promille\n", s.Rank, s.Name, s.Score, s.Intoxication)
	}
}
