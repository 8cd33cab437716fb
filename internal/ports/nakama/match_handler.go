package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"caravan/internal/app"
	"caravan/internal/bot"
	"caravan/internal/config"
	"caravan/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
// The human always sits in seat p1 and the bot in p2.
type MatchState struct {
	HumanID      string           `json:"human_id"`       // empty until the human joins
	Presence     runtime.Presence `json:"-"`              // presence of the human for targeted messaging
	Tick         int64            `json:"tick"`           // current tick of the match
	Rounds       int              `json:"rounds"`         // rounds started in this match
	App          *app.Service     `json:"-"`              // turn engine
	Game         *domain.Game     `json:"-"`              // current round (nil before the first start)
	Bot          *bot.Agent       `json:"-"`              // the p2 agent
	BotLevel     bot.BotLevel     `json:"bot_level"`      // strategy behind the agent
	BotMinDelay  int              `json:"bot_min_delay"`  // min ticks a bot waits
	BotMaxDelay  int              `json:"bot_max_delay"`  // max ticks a bot waits
	BotWaitUntil int64            `json:"bot_wait_until"` // tick when the bot should act

	rng *rand.Rand
}

type matchHandler struct {
	// cfg overrides the configuration file when set.
	cfg *config.Config
}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	cfg := mh.cfg
	if cfg == nil {
		path := defaultConfigPath
		if val, ok := env["caravan_config_path"]; ok && val != "" {
			path = val
		}
		if err := config.LoadGameConfig(path); err != nil {
			logger.Warn("MatchInit: Could not load config, using defaults: %v", err)
		}
		cfg = config.GetGameConfig()
	}

	if cfg.Bot.IdentitiesPath != "" {
		if err := bot.LoadIdentities(cfg.Bot.IdentitiesPath); err != nil {
			logger.Warn("MatchInit: Could not load bot identities: %v", err)
		}
	}

	state := &MatchState{
		BotMinDelay: cfg.Bot.MinDelayTicks,
		BotMaxDelay: cfg.Bot.MaxDelayTicks,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	// Environment variables override the file for bot pacing.
	if val, ok := env["caravan_bot_min_delay_ticks"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["caravan_bot_max_delay_ticks"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if state.BotMinDelay < 0 {
		state.BotMinDelay = 0
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay
	}

	levelName := cfg.Bot.Level
	if val, ok := params["bot_level"].(string); ok && val != "" {
		levelName = val
	}
	level, err := bot.ParseLevel(levelName)
	if err != nil {
		logger.Warn("MatchInit: %v, falling back to %s", err, bot.BotLevelGood)
		level = bot.BotLevelGood
	}
	brain, err := bot.NewBrain(level, bot.BrainOptions{
		Rng:           state.rng,
		ScriptPath:    cfg.Bot.ScriptPath,
		ScriptTimeout: cfg.Bot.ScriptTimeout,
	})
	if err != nil {
		logger.Error("MatchInit: Failed to create %s bot: %v", level, err)
		level = bot.BotLevelGood
		brain, _ = bot.NewBrain(level, bot.BrainOptions{Rng: state.rng})
	}
	state.BotLevel = level

	slogger := newRuntimeLogger(logger, slog.LevelInfo)
	opts := []app.Option{app.WithLogger(slogger), app.WithStrict(cfg.Engine.Strict)}
	if nk != nil {
		opts = append(opts, app.WithMetrics(NewNakamaMetricsAdapter(nk)))
	}
	state.App = app.NewService(state.rng, opts...)
	state.Bot = bot.NewAgent(bot.IdentityForLevel(level), brain, state.rng, slogger)

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// One human per match; the same user may reconnect.
	if matchState.HumanID != "" && matchState.HumanID != presence.GetUserId() {
		return state, false, "Match full"
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
		if matchState.HumanID != "" && matchState.HumanID != p.GetUserId() {
			logger.Warn("MatchJoin: User %s joined but the seat is taken by %s.", p.GetUserId(), matchState.HumanID)
			continue
		}
		matchState.HumanID = p.GetUserId()
		matchState.Presence = p
		logger.Info("MatchJoin: User %s seated against %s (%s).", p.GetUserId(), matchState.Bot.Name, matchState.BotLevel)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	if matchState.Game != nil {
		mh.sendSnapshot(matchState, dispatcher, logger)
	}
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		if p.GetUserId() == matchState.HumanID {
			if matchState.Game != nil && !matchState.Game.Over() {
				matchState.App.Abort(matchState.Game)
			}
			logger.Info("MatchLeave: Terminating match with no humans.")
			return nil
		}
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		if msg.GetUserId() != matchState.HumanID {
			logger.Warn("MatchLoop: Ignoring message from unseated user %s", msg.GetUserId())
			continue
		}
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(matchState, dispatcher, logger, msg)
		case OpPlayAction:
			mh.handlePlayAction(matchState, dispatcher, logger, msg)
		case OpRequestSnapshot:
			mh.sendSnapshot(matchState, dispatcher, logger)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processBot(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) handleStartGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Game != nil && !state.Game.Over() {
		mh.sendError(state, dispatcher, logger, CodeBadRequest, "round in progress")
		return
	}

	request, err := decodeStartGame(msg.GetData())
	if err != nil {
		logger.Warn("StartGame: Invalid StartGameRequest from %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, CodeBadRequest, "invalid start request")
		return
	}

	var decks [2][]domain.Card
	if len(request.Deck) > 0 {
		decks[0] = request.Deck
	}
	game, events, err := state.App.StartGame(decks)
	if err != nil {
		logger.Warn("StartGame: Failed to start game for %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, errorCode(err), err.Error())
		return
	}

	state.Game = game
	state.Rounds++
	state.BotWaitUntil = 0
	mh.updateLabel(state, dispatcher, logger)
	mh.afterTransition(state, dispatcher, logger, events)

	logger.Info("StartGame: Round %d started, %s moves first.", state.Rounds, game.Active)
}

func (mh *matchHandler) handlePlayAction(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Game == nil {
		logger.Warn("handlePlayAction: Game not started.")
		mh.sendError(state, dispatcher, logger, CodeBadRequest, "game not started")
		return
	}

	action, err := decodeAction(msg.GetData())
	if err != nil {
		logger.Warn("handlePlayAction: Failed to decode action from %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, CodeBadRequest, err.Error())
		return
	}

	events, err := state.App.Apply(state.Game, domain.PlayerOne, action)
	if err != nil {
		logger.Debug("handlePlayAction: User %s action %s rejected: %v", msg.GetUserId(), action, err)
		mh.sendError(state, dispatcher, logger, errorCode(err), err.Error())
		return
	}
	mh.afterTransition(state, dispatcher, logger, events)
}

// processBot lets the bot act once its delay has elapsed. The delay only paces the
// presentation; the human's move is already committed.
func (mh *matchHandler) processBot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.Game.Over() || state.Game.Active != domain.PlayerTwo {
		state.BotWaitUntil = 0
		return
	}
	if state.BotWaitUntil == 0 {
		mh.scheduleBot(state)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	move, err := state.Bot.CalculateMove(state.Game, domain.PlayerTwo)
	if err != nil {
		logger.Error("processBot: Bot %s failed to calculate move: %v", state.Bot.Name, err)
		return
	}
	events, err := state.App.Apply(state.Game, domain.PlayerTwo, move)
	if err != nil {
		logger.Error("processBot: Bot %s move %s rejected: %v", state.Bot.Name, move, err)
		return
	}
	mh.afterTransition(state, dispatcher, logger, events)
}

func (mh *matchHandler) scheduleBot(state *MatchState) {
	delay := state.BotMinDelay
	if span := state.BotMaxDelay - state.BotMinDelay; span > 0 {
		delay += state.rng.Intn(span + 1)
	}
	state.BotWaitUntil = state.Tick + int64(delay)
}

// afterTransition fans events out to the human and the bot and pushes the new state.
func (mh *matchHandler) afterTransition(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range visibleEvents(events, domain.PlayerTwo) {
		state.Bot.OnGameEvent(ev)
	}

	if human := visibleEvents(events, domain.PlayerOne); len(human) > 0 {
		mh.sendToHuman(state, dispatcher, logger, OpEvents, human)
	}
	mh.sendSnapshot(state, dispatcher, logger)

	for _, ev := range events {
		if ev.Kind == app.EventRoundOver {
			mh.sendToHuman(state, dispatcher, logger, OpRoundOver, ev.Payload)
			mh.updateLabel(state, dispatcher, logger)
		}
	}

	if !state.Game.Over() && state.Game.Active == domain.PlayerTwo && state.BotWaitUntil == 0 {
		mh.scheduleBot(state)
	}
}

func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, CodeBadRequest, "game not started")
		return
	}
	msg := SnapshotMessage{
		Round:    state.Rounds,
		Bot:      state.Bot.Name,
		Snapshot: state.Game.Snapshot().MaskedFor(domain.PlayerOne),
	}
	if !state.Game.Over() && state.Game.Active == domain.PlayerOne {
		msg.Legal = domain.LegalActions(state.Game, domain.PlayerOne)
	}
	mh.sendToHuman(state, dispatcher, logger, OpSnapshot, msg)
}

// sendError sends an ErrorMessage to the human.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	mh.sendToHuman(state, dispatcher, logger, OpGameError, ErrorMessage{Code: code, Message: message})
}

func (mh *matchHandler) sendToHuman(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload interface{}) {
	if state.Presence == nil {
		return
	}
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal message for op %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, bytes, []runtime.Presence{state.Presence}, nil, true); err != nil {
		logger.Error("Failed to send op %d: %v", opCode, err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d seconds grace", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
