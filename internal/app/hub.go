package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"smor/internal/domain"

	"github.com/google/uuid"
)

// DecisionKind identifies which Decider call a pending decision belongs to.
type DecisionKind string

const (
	DecisionTurn   DecisionKind = "turn"
	DecisionCard   DecisionKind = "card"
	DecisionNPC    DecisionKind = "npc"
	DecisionOption DecisionKind = "option"
	DecisionRoll   DecisionKind = "roll"
)

// PendingDecision describes a question waiting for a human answer. It is a
// value copy, safe to hand to other goroutines.
type PendingDecision struct {
	ID       string
	PlayerID string
	Kind     DecisionKind
	Topic    string
	Prompt   string
	Options  []string
	NPCs     []string
	Optional bool
	OpenedAt time.Time
}

// Choice is a human answer. Turn answers use Action, Indices and Index (NPC);
// every other kind uses Index, where -1 declines an optional question.
type Choice struct {
	Action  ActionKind
	Indices []int
	Index   int
}

type waiter struct {
	decision PendingDecision
	valid    func(Choice) bool
	answer   chan Choice
}

// Hub is the rendezvous between the engine goroutine and whatever delivers
// human answers. At most one decision is open at a time.
type Hub struct {
	mu      sync.Mutex
	open    *waiter
	timeout time.Duration
	notify  func(PendingDecision)
	clock   func() time.Time
}

// NewHub creates a hub. notify is called on the engine goroutine each time a
// decision opens. A positive timeout answers abandoned decisions with their default.
func NewHub(timeout time.Duration, notify func(PendingDecision)) *Hub {
	if notify == nil {
		notify = func(PendingDecision) {}
	}
	return &Hub{timeout: timeout, notify: notify, clock: time.Now}
}

// Pending returns the open decision, if any.
func (h *Hub) Pending() (PendingDecision, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.open == nil {
		return PendingDecision{}, false
	}
	return h.open.decision, true
}

// Resolve answers the open decision with the given ID. Stale IDs, repeated
// answers and invalid choices are ignored and reported as false.
func (h *Hub) Resolve(id string, c Choice) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.open == nil || h.open.decision.ID != id {
		return false
	}
	if !h.open.valid(c) {
		return false
	}
	h.open.answer <- c
	h.open = nil
	return true
}

// For returns the Decider for a human player.
func (h *Hub) For(playerID string) Decider {
	return &humanDecider{hub: h, playerID: playerID}
}

func (h *Hub) await(ctx context.Context, d PendingDecision, valid func(Choice) bool, fallback Choice) (Choice, error) {
	d.ID = uuid.NewString()
	d.OpenedAt = h.clock()
	w := &waiter{decision: d, valid: valid, answer: make(chan Choice, 1)}

	h.mu.Lock()
	h.open = w
	h.mu.Unlock()
	h.notify(d)

	var expired <-chan time.Time
	if h.timeout > 0 {
		timer := time.NewTimer(h.timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case c := <-w.answer:
		return c, nil
	case <-ctx.Done():
		h.close(w)
		return Choice{}, ctx.Err()
	case <-expired:
		if h.close(w) {
			return fallback, nil
		}
		// Answered while the timer fired.
		return <-w.answer, nil
	}
}

// close withdraws w if it is still open and reports whether it was.
func (h *Hub) close(w *waiter) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.open != w {
		return false
	}
	h.open = nil
	return true
}

type humanDecider struct {
	hub      *Hub
	playerID string
}

func (d *humanDecider) pending(kind DecisionKind, topic, prompt string) PendingDecision {
	return PendingDecision{PlayerID: d.playerID, Kind: kind, Topic: topic, Prompt: prompt}
}

func (d *humanDecider) TakeTurn(ctx context.Context, req TurnRequest) (TurnAction, error) {
	p := d.pending(DecisionTurn, "turn", fmt.Sprintf("%s, velg et kort å spille", req.Player.Name))
	p.Options = cardLabels(req.Player.Hand)
	p.NPCs = npcNames(req.Player.NPCs)
	hand, npcs := len(req.Player.Hand), len(req.Player.NPCs)

	c, err := d.hub.await(ctx, p, func(c Choice) bool {
		return validTurn(TurnAction{Kind: c.Action, Cards: c.Indices, NPC: c.Index}, hand, npcs)
	}, Choice{Action: ActionPlay, Indices: []int{0}})
	if err != nil {
		return TurnAction{}, err
	}
	return TurnAction{Kind: c.Action, Cards: c.Indices, NPC: c.Index}, nil
}

func (d *humanDecider) PickCard(ctx context.Context, req CardRequest) (int, error) {
	p := d.pending(DecisionCard, string(req.Purpose), fmt.Sprintf("%s, velg et kort", req.Player.Name))
	p.Options = cardLabels(req.Cards)
	n := len(req.Cards)
	c, err := d.hub.await(ctx, p, func(c Choice) bool { return c.Index >= 0 && c.Index < n }, Choice{Index: 0})
	return c.Index, err
}

func (d *humanDecider) PickNPC(ctx context.Context, req NPCRequest) (int, error) {
	p := d.pending(DecisionNPC, "npc", fmt.Sprintf("%s, velg en venn", req.Player.Name))
	p.Options = npcNames(req.Candidates)
	p.Optional = req.Optional
	n, optional := len(req.Candidates), req.Optional
	fallback := Choice{Index: 0}
	if optional {
		fallback.Index = -1
	}
	c, err := d.hub.await(ctx, p, func(c Choice) bool {
		return (c.Index >= 0 && c.Index < n) || (optional && c.Index == -1)
	}, fallback)
	return c.Index, err
}

func (d *humanDecider) PickOption(ctx context.Context, req OptionRequest) (int, error) {
	p := d.pending(DecisionOption, string(req.Topic), req.Prompt)
	p.Options = append([]string(nil), req.Options...)
	n := len(req.Options)
	c, err := d.hub.await(ctx, p, func(c Choice) bool { return c.Index >= 0 && c.Index < n }, Choice{Index: req.Default})
	return c.Index, err
}

func (d *humanDecider) AcknowledgeRoll(ctx context.Context, notice RollNotice) error {
	prompt := notice.Result.String()
	if notice.Raw {
		prompt = fmt.Sprintf("%d", notice.Result.Face)
	}
	p := d.pending(DecisionRoll, notice.Action.String(), prompt)
	_, err := d.hub.await(ctx, p, func(Choice) bool { return true }, Choice{})
	return err
}

// validTurn checks a turn action against the hand and NPC counts.
func validTurn(a TurnAction, hand, npcs int) bool {
	inHand := func(i int) bool { return i >= 0 && i < hand }
	switch a.Kind {
	case ActionPlay:
		return len(a.Cards) == 1 && inHand(a.Cards[0])
	case ActionTrade:
		return len(a.Cards) == 2 && inHand(a.Cards[0]) && inHand(a.Cards[1]) && a.Cards[0] != a.Cards[1]
	case ActionSendAway:
		return len(a.Cards) == 1 && inHand(a.Cards[0]) && a.NPC >= 0 && a.NPC < npcs
	default:
		return false
	}
}

func cardLabels(cards []domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Name
	}
	return out
}

func npcNames(npcs []*domain.NPC) []string {
	out := make([]string, len(npcs))
	for i, n := range npcs {
		out[i] = n.Name
	}
	return out
}
