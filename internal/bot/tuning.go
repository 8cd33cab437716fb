package bot

import botinternal "caravan/internal/bot/internal"

const winBonus = 1000.0

// DefaultTuning builds lanes early and protects sold ones late.
var DefaultTuning = botinternal.BotTuning{
	Opening: botinternal.PhaseWeights{
		OwnLaneWeight:         1.0,
		OpponentLaneWeight:    0.3,
		LaneLeadWeight:        0.5,
		HandCardWeight:        0.2,
		PowerCardWeight:       0.6,
		DiscardPenalty:        2.0,
		CaravanDiscardPenalty: 1.0,
		WinBonus:              winBonus,
	},
	Mid: botinternal.PhaseWeights{
		OwnLaneWeight:         1.0,
		OpponentLaneWeight:    0.7,
		LaneLeadWeight:        1.0,
		HandCardWeight:        0.2,
		PowerCardWeight:       0.8,
		DiscardPenalty:        1.5,
		CaravanDiscardPenalty: 0.8,
		WinBonus:              winBonus,
	},
	End: botinternal.PhaseWeights{
		OwnLaneWeight:         1.2,
		OpponentLaneWeight:    1.0,
		LaneLeadWeight:        1.5,
		HandCardWeight:        0.4,
		PowerCardWeight:       0.4,
		DiscardPenalty:        1.0,
		CaravanDiscardPenalty: 1.2,
		WinBonus:              winBonus,
	},
	ReplyLimit: 40,
}

// smartBotTuning weighs the opponent's lanes more heavily.
var smartBotTuning = func() botinternal.BotTuning {
	t := DefaultTuning
	t.Mid.OpponentLaneWeight = 1.0
	t.End.OpponentLaneWeight = 1.3
	return t
}()
