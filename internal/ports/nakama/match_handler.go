package nakama

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	mathrand "math/rand"
	"strconv"
	"time"

	"smor/internal/app"
	"smor/internal/bot"
	"smor/internal/catalog"
	"smor/internal/config"
	"smor/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	MatchLabelKey_OpenSeats = "open" // Key for the open seats in the match label

	// maxAutoFillSeats leaves one seat open for a late human after bots fill the lobby.
	maxAutoFillSeats = 3
	// defaultDecisionTimeout keeps a disconnected player from stalling the table.
	defaultDecisionTimeout = 2 * time.Minute
	feedSize               = 1024
	// tickRate drains the game feed five times a second.
	tickRate = 5
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     [app.MaxPlayers]string      `json:"seats"`      // Array of user IDs, empty string means seat is empty
	OwnerSeat int                         `json:"owner_seat"` // Seat index of the match owner
	Tick      int64                       `json:"tick"`       // Current tick of the match
	Presences map[string]runtime.Presence `json:"-"`          // Map UserId -> Presence for targeted messaging
	Names     map[string]string           `json:"-"`          // Map UserId -> display name

	Session *app.Session       `json:"-"` // Running game, nil while in lobby
	Config  *config.GameConfig `json:"-"`
	Catalog *domain.Catalog    `json:"-"`
	Tickets *app.TicketIssuer  `json:"-"`

	BotsEnabled          bool                    `json:"bots_enabled"`            // Whether AI players are allowed
	BotAutoFillDelay     int                     `json:"bot_auto_fill_delay"`     // Seconds to wait before auto-filling with bots
	BotLevel             bot.BotLevel            `json:"bot_level"`               // Level for bots without their own
	LastSinglePlayerTick int64                   `json:"last_single_player_tick"` // Tick when a single player started waiting
	Bots                 map[string]bot.BotLevel `json:"-"`                       // Seated bots and their levels
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Seats) - ms.GetOpenSeatsCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

func (ms *MatchState) displayName(userID string) string {
	if name := ms.Names[userID]; name != "" {
		return name
	}
	return userID
}

func (ms *MatchState) phase() string {
	if ms.Session != nil {
		return "playing"
	}
	return "lobby"
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities(""); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	cfg := config.Default()
	if path := env[EnvGameConfig]; path != "" {
		loaded, err := config.LoadGameConfig(path)
		if err != nil {
			logger.Warn("MatchInit: Could not load game config %s, using defaults: %v", path, err)
		} else {
			cfg = loaded
		}
	}

	cat, warnings, err := catalog.Default()
	if err != nil {
		logger.Error("MatchInit: Failed to load catalog: %v", err)
		return nil, 0, ""
	}
	for _, w := range warnings {
		logger.Warn("MatchInit: catalog: %s", w)
	}

	state := &MatchState{
		Tick:             time.Now().Unix(),
		Presences:        make(map[string]runtime.Presence),
		Names:            make(map[string]string),
		OwnerSeat:        -1,
		Config:           cfg,
		Catalog:          cat,
		BotAutoFillDelay: cfg.BotAutoFillDelaySeconds,
		Bots:             make(map[string]bot.BotLevel),
	}

	if val, ok := env[EnvBotsEnabled]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env[EnvBotAutoFillDelay]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}
	levelName := cfg.BotLevel
	if val, ok := env[EnvBotLevel]; ok {
		levelName = val
	}
	if state.BotLevel, err = bot.ParseLevel(levelName); err != nil {
		logger.Warn("MatchInit: %v, using random bots", err)
		state.BotLevel = bot.BotLevelRandom
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = 5
	}

	secret := env[EnvTicketSecret]
	if secret == "" {
		secret = randomSecret()
	}
	if state.Tickets, err = app.NewTicketIssuer(secret, MatchNameSmor, decisionTimeout(cfg)+time.Minute); err != nil {
		logger.Error("MatchInit: Failed to create ticket issuer: %v", err)
		return nil, 0, ""
	}

	label, err := matchLabel(state.GetOpenSeatsCount(), state.phase())
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	return state, tickRate, label
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(b)
}

func decisionTimeout(cfg *config.GameConfig) time.Duration {
	if d := cfg.DecisionTimeout(); d > 0 {
		return d
	}
	return defaultDecisionTimeout
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Allow join if there is an empty seat OR a bot to replace (if game hasn't started)
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Session == nil {
			for _, seat := range matchState.Seats {
				if isBotUserId(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p
		matchState.Names[userID] = p.GetUsername()

		// Assign seat: Try empty seats first, then bots (if lobby)
		seat := domain.LowestAvailableSeat(matchState.Seats[:])
		if seat < 0 && matchState.Session == nil {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, userID, i)
					delete(matchState.Bots, seatUserId)
					delete(matchState.Names, seatUserId)
					seat = i
					break
				}
			}
		}
		if seat < 0 {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", userID)
			continue
		}
		matchState.Seats[seat] = userID
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match. A player who
// leaves mid-game keeps their seat in the engine; their decisions time out.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	ownerLeft := false
	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		for i, seatUserId := range matchState.Seats {
			if seatUserId == p.GetUserId() {
				matchState.Seats[i] = ""
				logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), i)

				if matchState.OwnerSeat == i {
					ownerLeft = true
				}
				break
			}
		}
	}

	newOwnerSeat := findFirstHumanSeat(matchState.Seats[:])
	if newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
		if newOwnerSeat >= 0 {
			logger.Debug("MatchLeave: Owner set to human seat %d.", newOwnerSeat)
		} else if ownerLeft {
			logger.Debug("MatchLeave: Owner left and no human owner is available.")
		}
	}

	if shouldTerminateNoHumans(matchState.Seats[:]) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		if matchState.Session != nil {
			matchState.Session.Stop()
		}
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(matchState, dispatcher, logger, msg)
		case OpResolveDecision:
			mh.handleResolveDecision(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(matchState, dispatcher, logger)
	}

	mh.drainEvents(matchState, dispatcher, logger)

	return matchState
}

// processBots fills a solo human's lobby with bots once the auto-fill delay has passed.
// Bots play inside the engine; the match only seats them.
func (mh *matchHandler) processBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Session != nil {
		return
	}
	if state.GetHumanPlayerCount() != 1 {
		state.LastSinglePlayerTick = 0
		return
	}
	if state.LastSinglePlayerTick == 0 {
		state.LastSinglePlayerTick = state.Tick
		logger.Debug("processBots: Single player detected, starting auto-fill timer.")
	}
	if state.Tick-state.LastSinglePlayerTick < int64(state.BotAutoFillDelay*tickRate) {
		return
	}

	added := false
	for i, seat := range state.Seats {
		if state.GetOccupiedSeatCount() >= maxAutoFillSeats {
			break
		}
		if seat != "" {
			continue
		}
		identity := bot.GetBotIdentity(i)
		level := identity.Level
		if level == "" {
			level = state.BotLevel
		}
		state.Seats[i] = identity.UserID
		state.Bots[identity.UserID] = level
		state.Names[identity.UserID] = identity.DisplayName
		logger.Info("processBots: Added bot %s (%s, %s) to seat %d", identity.DisplayName, identity.UserID, level, i)
		added = true
	}
	if added {
		mh.updateLabel(state, dispatcher, logger)
		mh.broadcastMatchState(state, dispatcher, logger)
	}
	state.LastSinglePlayerTick = 0
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	players := make([]interface{}, 0, len(state.Seats))
	seats := make([]interface{}, len(state.Seats))
	for i, userId := range state.Seats {
		seats[i] = userId
		if userId == "" {
			continue
		}
		avatar := 0
		if identity, ok := bot.GetBotConfig(userId); ok {
			avatar = identity.AvatarIndex
		}
		players = append(players, map[string]interface{}{
			"user_id":      userId,
			"seat":         i,
			"is_owner":     i == state.OwnerSeat,
			"is_bot":       isBotUserId(userId),
			"display_name": state.displayName(userId),
			"avatar_index": avatar,
		})
	}

	snapshot, err := structpb.NewStruct(map[string]interface{}{
		"seats":      seats,
		"owner_seat": state.OwnerSeat,
		"tick":       state.Tick,
		"phase":      state.phase(),
		"players":    players,
	})
	if err != nil {
		logger.Error("broadcastMatchState: Failed to build snapshot: %v", err)
		return
	}
	mh.send(dispatcher, logger, OpMatchState, snapshot, nil)
}

func (mh *matchHandler) handleStartGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := -1
	for i, seatUserId := range state.Seats {
		if seatUserId == senderID {
			senderSeat = i
			break
		}
	}

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Session != nil {
		logger.Warn("StartGame: A game is already running.")
		mh.sendError(state, dispatcher, logger, senderID, 409, "game already running")
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		return
	}

	activeCount := state.GetOccupiedSeatCount()
	if activeCount < app.MinPlayersToStartGame {
		logger.Warn("StartGame: Cannot start with %d players. Need at least %d.", activeCount, app.MinPlayersToStartGame)
		mh.sendError(state, dispatcher, logger, senderID, 400, "not enough players")
		return
	}

	seed := time.Now().UnixNano()
	rng := mathrand.New(mathrand.NewSource(seed))
	var participants []app.Participant
	for _, userID := range state.Seats {
		if userID == "" {
			continue
		}
		level, isBot := state.Bots[userID]
		player := domain.NewPlayer(userID, state.displayName(userID), !isBot)
		if !isBot {
			participants = append(participants, app.Participant{Player: player})
			continue
		}
		agent, err := bot.NewAgent(level, mathrand.New(mathrand.NewSource(rng.Int63())))
		if err != nil {
			logger.Error("StartGame: Failed to create bot agent for %s: %v", userID, err)
			return
		}
		participants = append(participants, app.Participant{Player: player, Decider: agent})
	}

	session, err := app.NewSession(app.SessionConfig{
		Options: app.Options{
			Rules:        state.Config.Rules,
			Pacing:       state.Config.Pacing(),
			Catalog:      state.Catalog,
			Participants: participants,
			Rand:         rng,
			Logger:       logger,
		},
		DecisionTimeout: decisionTimeout(state.Config),
		Tickets:         state.Tickets,
		FeedSize:        feedSize,
	})
	if err != nil {
		logger.Error("StartGame: Failed to create session: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 500, err.Error())
		return
	}
	if err := session.Start(context.Background()); err != nil {
		logger.Error("StartGame: Failed to start session: %v", err)
		return
	}
	state.Session = session

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastMatchState(state, dispatcher, logger)
	logger.Info("StartGame: Game %s started with %d players (seed %d).", session.ID(), activeCount, seed)
}

func (mh *matchHandler) handleResolveDecision(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Session == nil {
		logger.Warn("handleResolveDecision: Game not started.")
		return
	}

	req, err := parseResolveRequest(msg.GetData())
	if err != nil {
		logger.Warn("handleResolveDecision: User %s sent a bad payload: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	var resolved bool
	if req.Ticket != "" {
		resolved, err = state.Session.ResolveTicket(senderID, req.Ticket, req.Choice)
		if err != nil {
			logger.Warn("handleResolveDecision: User %s sent an invalid ticket: %v", senderID, err)
			mh.sendError(state, dispatcher, logger, senderID, 401, err.Error())
			return
		}
	} else {
		pending, open := state.Session.Pending()
		if open && pending.ID == req.DecisionID && pending.PlayerID == senderID {
			resolved = state.Session.Resolve(req.DecisionID, req.Choice)
		}
	}

	if !resolved {
		logger.Debug("handleResolveDecision: Rejected answer from %s for %s", senderID, req.DecisionID)
		mh.sendError(state, dispatcher, logger, senderID, 409, "decision is closed or the answer is invalid")
	}
}

// drainEvents forwards everything the engine has published since the last tick.
func (mh *matchHandler) drainEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for state.Session != nil {
		select {
		case ev, ok := <-state.Session.Events():
			if !ok {
				state.Session = nil
				mh.updateLabel(state, dispatcher, logger)
				mh.broadcastMatchState(state, dispatcher, logger)
				return
			}
			mh.broadcastEvent(state, dispatcher, logger, ev)
		default:
			return
		}
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	switch ev.Kind {
	case app.EventLog:
		payload, err := logEntryToStruct(ev.Payload.(domain.LogEntry))
		if err != nil {
			logger.Error("broadcastEvent: log entry: %v", err)
			return
		}
		mh.send(dispatcher, logger, OpLogEntry, payload, nil)

	case app.EventSnapshot:
		// Each presence sees only its own hand.
		snapshot := ev.Payload.(domain.Snapshot)
		for userID, presence := range state.Presences {
			payload, err := snapshotToStruct(snapshot, userID)
			if err != nil {
				logger.Error("broadcastEvent: snapshot: %v", err)
				return
			}
			mh.send(dispatcher, logger, OpSnapshot, payload, []runtime.Presence{presence})
		}

	case app.EventDecision:
		payload, err := decisionToStruct(ev.Payload.(app.DecisionPayload))
		if err != nil {
			logger.Error("broadcastEvent: decision: %v", err)
			return
		}
		var recipients []runtime.Presence
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Intended recipients who are not connected must not leak to everyone else.
		if len(recipients) == 0 {
			return
		}
		mh.send(dispatcher, logger, OpDecision, payload, recipients)

	case app.EventGameEnded:
		result := ev.Payload.(app.GameEndedPayload).Result
		payload, err := resultToStruct(result)
		if err != nil {
			logger.Error("broadcastEvent: result: %v", err)
			return
		}
		logger.Info("Game %s ended, winner %s with %d points", result.GameID, result.Winner.Name, result.Winner.Score)
		mh.send(dispatcher, logger, OpGameEnded, payload, nil)

	case app.EventGameAborted:
		reason := ev.Payload.(app.GameAbortedPayload).Reason
		payload, err := structpb.NewStruct(map[string]interface{}{"reason": reason})
		if err != nil {
			logger.Error("broadcastEvent: abort: %v", err)
			return
		}
		logger.Warn("Game aborted: %s", reason)
		mh.send(dispatcher, logger, OpGameAborted, payload, nil)

	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
	}
}

func (mh *matchHandler) send(dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload proto.Message, recipients []runtime.Presence) {
	bytes, err := proto.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal payload for opcode %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
		logger.Warn("Failed to send opcode %d: %v", opCode, err)
	}
}

// sendError sends an error event to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	payload, err := structpb.NewStruct(map[string]interface{}{
		"code":    code,
		"message": message,
	})
	if err != nil {
		logger.Error("Failed to build error event: %v", err)
		return
	}
	mh.send(dispatcher, logger, OpGameError, payload, []runtime.Presence{presence})
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state.GetOpenSeatsCount(), state.phase())
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminating in %d seconds", graceSeconds)
	if matchState, ok := state.(*MatchState); ok && matchState.Session != nil {
		matchState.Session.Stop()
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
