package bot

import (
	"context"
	"math/rand"

	"smor/internal/app"
)

// Agent represents an autonomous bot player. It satisfies app.Decider and
// answers immediately, so the engine never suspends on it.
type Agent struct {
	Strategy Brain

	// rng picks forced discards. Without one the strategy chooses.
	rng *rand.Rand
}

// NewAgent returns an agent playing at the given level.
func NewAgent(level BotLevel, rng *rand.Rand) (*Agent, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	brain, err := NewBrain(level, rng)
	if err != nil {
		return nil, err
	}
	return &Agent{Strategy: brain, rng: rng}, nil
}

func (a *Agent) TakeTurn(ctx context.Context, req app.TurnRequest) (app.TurnAction, error) {
	if err := ctx.Err(); err != nil {
		return app.TurnAction{}, err
	}
	if req.Player == nil || len(req.Player.Hand) == 0 {
		return app.PlayCard(0), nil
	}
	return a.Strategy.ChooseTurn(req), nil
}

func (a *Agent) PickCard(ctx context.Context, req app.CardRequest) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(req.Cards) == 0 {
		return -1, nil
	}
	// Vomit and dring discards are uniformly random at every level.
	if a.rng != nil && (req.Purpose == app.PurposeVomit || req.Purpose == app.PurposeDring) {
		return a.rng.Intn(len(req.Cards)), nil
	}
	return clampIndex(a.Strategy.ChooseCard(req), len(req.Cards), 0), nil
}

func (a *Agent) PickNPC(ctx context.Context, req app.NPCRequest) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	fallback := 0
	if req.Optional {
		fallback = -1
	}
	if len(req.Candidates) == 0 {
		return -1, nil
	}
	idx := a.Strategy.ChooseNPC(req)
	if idx == -1 && req.Optional {
		return -1, nil
	}
	return clampIndex(idx, len(req.Candidates), fallback), nil
}

func (a *Agent) PickOption(ctx context.Context, req app.OptionRequest) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return clampIndex(a.Strategy.ChooseOption(req), len(req.Options), req.Default), nil
}

// AcknowledgeRoll returns at once; bots have nothing to look at.
func (a *Agent) AcknowledgeRoll(ctx context.Context, _ app.RollNotice) error {
	return ctx.Err()
}

func clampIndex(i, n, fallback int) int {
	if i < 0 || i >= n {
		return fallback
	}
	return i
}
