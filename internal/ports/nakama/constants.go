package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameSmor is the authoritative match handler name registered with Nakama.
	MatchNameSmor = "smor_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame       int64 = 1
	OpResolveDecision int64 = 2

	// Server -> Client events
	OpMatchState  int64 = 101
	OpLogEntry    int64 = 102
	OpSnapshot    int64 = 103
	OpDecision    int64 = 104 // send privately
	OpGameEnded   int64 = 105
	OpGameAborted int64 = 106
	OpGameError   int64 = 107
)

// Runtime environment keys read in MatchInit.
const (
	EnvBotsEnabled      = "smor_bots_enabled"
	EnvBotAutoFillDelay = "smor_bot_auto_fill_delay_sec"
	EnvBotLevel         = "smor_bot_level"
	EnvTicketSecret     = "smor_ticket_secret"
	EnvGameConfig       = "smor_game_config"
)
