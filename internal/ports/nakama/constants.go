package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to open a new solo match against the bot.
	RpcQuickMatch = "quick_match"

	// RpcDraftPool returns the cards a player may build a custom deck from.
	RpcDraftPool = "draft_pool"

	// MatchNameCaravan is the authoritative match handler name registered with Nakama.
	MatchNameCaravan = "caravan_match"

	// MatchLabelGame identifies caravan matches in label queries.
	MatchLabelGame = "caravan"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame       int64 = 1
	OpPlayAction      int64 = 2
	OpRequestSnapshot int64 = 3

	// Server -> Client events
	OpSnapshot  int64 = 101
	OpEvents    int64 = 102 // filtered per recipient
	OpGameError int64 = 103
	OpRoundOver int64 = 104
)

// Error codes carried by OpGameError.
const (
	CodeBadRequest    = 400
	CodeIllegalMove   = 422
	CodeNotYourTurn   = 409
	CodeRoundOver     = 410
	CodeInternalError = 500
)

const (
	// tickRate is the number of MatchLoop calls per second.
	tickRate = 2

	defaultConfigPath = "data/caravan.yaml"
)
