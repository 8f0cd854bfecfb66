package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"smor/internal/config"
	"smor/internal/dice"
	"smor/internal/domain"
	"smor/internal/ports"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

var (
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrTooManyPlayers = errors.New("too many players")
	ErrEmptyCatalog   = errors.New("catalog has no cards or places")
	ErrMissingDecider = errors.New("player has no decider")
)

// Participant binds a player to whoever makes its decisions.
type Participant struct {
	Player  *domain.Player
	Decider Decider
}

// Options configures an Engine. Zero values get sensible defaults except
// Catalog and Participants.
type Options struct {
	GameID       string
	Rules        config.Rules
	Pacing       time.Duration
	Catalog      *domain.Catalog
	Participants []Participant
	Rand         *rand.Rand
	Dice         *dice.Roller
	Logger       runtime.Logger
	Sink         ports.LogSink
	Display      ports.Display
	Clock        func() time.Time
}

// Result is the outcome of a finished game.
type Result struct {
	GameID      string
	Winner      domain.Standing
	Leaderboard []domain.Standing
}

// Engine runs one game from the first phase to the leaderboard. It is not
// safe for concurrent use; everything happens on the goroutine calling Run.
type Engine struct {
	id       string
	rules    config.Rules
	pacing   time.Duration
	catalog  *domain.Catalog
	players  []*domain.Player
	deciders map[string]Decider
	rng      *rand.Rand
	dice     *dice.Roller
	logger   runtime.Logger
	sink     ports.LogSink
	display  ports.Display
	clock    func() time.Time

	deck      *domain.Deck
	phase     domain.Phase
	place     *domain.Place
	visited   map[string]bool
	town      []*domain.NPC
	usedNPCs  map[string]bool
	current   *domain.Player
	suspended Suspension
	log       []domain.LogEntry
	finished  bool
}

// NewEngine validates opts and prepares a game.
func NewEngine(opts Options) (*Engine, error) {
	if len(opts.Participants) < MinPlayersToStartGame {
		return nil, ErrTooFewPlayers
	}
	if len(opts.Participants) > MaxPlayers {
		return nil, ErrTooManyPlayers
	}
	if opts.Catalog == nil || len(opts.Catalog.Cards) == 0 || len(opts.Catalog.Places) == 0 {
		return nil, ErrEmptyCatalog
	}
	if opts.Rules.HandSize == 0 {
		opts.Rules = config.DefaultRules()
	}
	if err := opts.Rules.Validate(); err != nil {
		return nil, err
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Dice == nil {
		opts.Dice = dice.NewRoller(opts.Rand)
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if opts.Sink == nil {
		opts.Sink = ports.Discard{}
	}
	if opts.Display == nil {
		opts.Display = ports.Discard{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.GameID == "" {
		opts.GameID = uuid.NewString()
	}

	e := &Engine{
		id:       opts.GameID,
		rules:    opts.Rules,
		pacing:   opts.Pacing,
		catalog:  opts.Catalog,
		deciders: make(map[string]Decider, len(opts.Participants)),
		rng:      opts.Rand,
		dice:     opts.Dice,
		logger:   opts.Logger.WithField("game", opts.GameID),
		sink:     opts.Sink,
		display:  opts.Display,
		clock:    opts.Clock,
		visited:  make(map[string]bool),
		usedNPCs: make(map[string]bool),
	}
	for _, part := range opts.Participants {
		if part.Player == nil {
			return nil, fmt.Errorf("participant without player")
		}
		if part.Decider == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingDecider, part.Player.Name)
		}
		if part.Player.ID == "" {
			part.Player.ID = uuid.NewString()
		}
		if part.Player.Status == "" {
			part.Player.Status = domain.StatusActive
		}
		if _, dup := e.deciders[part.Player.ID]; dup {
			return nil, fmt.Errorf("duplicate player id %s", part.Player.ID)
		}
		e.players = append(e.players, part.Player)
		e.deciders[part.Player.ID] = part.Decider
	}
	e.deck = domain.NewDeck(opts.Catalog.Cards, e.rng, opts.Rules.DefaultCardCount)
	return e, nil
}

// ID returns the game identifier.
func (e *Engine) ID() string { return e.id }

// Players returns the players in seat order.
func (e *Engine) Players() []*domain.Player { return e.players }

// Log returns a copy of the narrative so far.
func (e *Engine) Log() []domain.LogEntry {
	return append([]domain.LogEntry(nil), e.log...)
}

// Suspended returns the decisions currently awaited.
func (e *Engine) Suspended() Suspension { return e.suspended }

// Run plays the whole game. It returns early only when ctx is cancelled.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	e.logger.Info("Run: starting game with %d players", len(e.players))
	e.logf(domain.LogInfo, "🎉 SMØR starter med %d spillere!", len(e.players))
	e.refillTown()

	for _, phase := range domain.Phases {
		if err := e.playPhase(ctx, phase); err != nil {
			e.logger.Warn("Run: game stopped in %s: %v", phase, err)
			return Result{}, err
		}
	}
	return e.endGame(), nil
}

func (e *Engine) playPhase(ctx context.Context, phase domain.Phase) error {
	e.phase = phase
	e.place = e.catalog.Places[e.rng.Intn(len(e.catalog.Places))]
	e.logf(domain.LogTurn, "🌙 %s på %s", phase, e.place.Name)
	if e.place.Text != "" {
		e.logf(domain.LogInfo, "%s", e.place.Text)
	}
	for _, key := range sortedKeys(e.place.EffectDescriptions) {
		e.logf(domain.LogInfo, "⚡ %s", e.place.EffectDescriptions[key])
	}
	e.settlePenaltyToken()
	e.publish()
	if err := e.pause(ctx); err != nil {
		return err
	}

	if err := e.venueEntryGate(ctx); err != nil {
		return err
	}
	e.dealRound()
	if err := e.playerLoop(ctx); err != nil {
		return err
	}
	e.endPhase()
	return nil
}

// dealRound gives every active player a fresh hand and applies round-start venue effects.
func (e *Engine) dealRound() {
	for _, p := range e.players {
		if !p.IsActive() {
			continue
		}
		p.Hand = e.deck.Draw(e.rules.HandSize)
		e.applyRoundStart(p)
	}
	e.publish()
}

func (e *Engine) playerLoop(ctx context.Context) error {
	for domain.CountActiveWithCards(e.players) > 0 {
		for _, p := range e.players {
			if !p.IsActive() || !p.HasCards() {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.playerTurn(ctx, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) endPhase() {
	for _, p := range e.players {
		p.Status = domain.StatusActive
	}
	e.current = nil
	e.logf(domain.LogInfo, "🏁 %s er over.", e.phase)
	e.publish()
}

func (e *Engine) endGame() Result {
	e.finished = true
	board := Leaderboard(e.players)
	res := Result{GameID: e.id, Leaderboard: board}
	if len(board) > 0 {
		res.Winner = board[0]
		e.logf(domain.LogSuccess, "🏆 %s vinner med %d minnepoeng!", res.Winner.Name, res.Winner.Score)
	}
	for _, s := range board {
		e.logf(domain.LogInfo, "%d. %s: %d minnepoeng, %.1f promille", s.Rank, s.Name, s.Score, s.Intoxication)
	}
	e.publish()
	e.logger.Info("Run: game finished, winner %s", res.Winner.Name)
	return res
}

// Leaderboard ranks players by score, highest first. Ties keep seat order, so
// the first-seated of tied leaders wins.
func Leaderboard(players []*domain.Player) []domain.Standing {
	sorted := append([]*domain.Player(nil), players...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	board := make([]domain.Standing, len(sorted))
	for i, p := range sorted {
		board[i] = domain.Standing{
			Rank:         i + 1,
			PlayerID:     p.ID,
			Name:         p.Name,
			Score:        p.Score,
			Intoxication: p.Intoxication,
		}
	}
	return board
}

// Snapshot captures the presentation state.
func (e *Engine) Snapshot() domain.Snapshot {
	s := domain.Snapshot{
		GameID:    e.id,
		Phase:     e.phase,
		DeckSize:  e.deck.Len(),
		Suspended: e.suspended.Names(),
		Finished:  e.finished,
	}
	if e.place != nil {
		s.Place = e.place.Name
		for _, key := range sortedKeys(e.place.EffectDescriptions) {
			s.PlaceEffects = append(s.PlaceEffects, e.place.EffectDescriptions[key])
		}
	}
	if e.current != nil {
		s.CurrentPlayer = e.current.ID
	}
	for _, p := range e.players {
		s.Players = append(s.Players, p.View(true))
	}
	for _, n := range e.town {
		s.Town = append(s.Town, n.Name)
	}
	return s
}

func (e *Engine) publish() {
	e.display.Show(e.Snapshot())
}

func (e *Engine) logf(kind domain.LogType, format string, args ...interface{}) {
	entry := domain.LogEntry{
		Seq:     len(e.log) + 1,
		Message: fmt.Sprintf(format, args...),
		Type:    kind,
		At:      e.clock(),
	}
	e.log = append(e.log, entry)
	e.sink.Append(entry)
}

// pause waits for the configured pacing delay.
func (e *Engine) pause(ctx context.Context) error {
	if e.pacing <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(e.pacing)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// suspend marks flag as awaited and returns the function that clears it.
// A flag that is already set stays owned by the outer caller.
func (e *Engine) suspend(flag Suspension) func() {
	if e.suspended.Has(flag) {
		return func() {}
	}
	e.suspended |= flag
	e.publish()
	return func() { e.suspended &^= flag }
}

func (e *Engine) decider(p *domain.Player) Decider {
	return e.deciders[p.ID]
}

func (e *Engine) others(p *domain.Player) []*domain.Player {
	out := make([]*domain.Player, 0, len(e.players)-1)
	for _, q := range e.players {
		if q != p {
			out = append(out, q)
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
