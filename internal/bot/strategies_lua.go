package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"caravan/internal/bot/internal"
	"caravan/internal/domain"
)

// luaEntryPoint is the global function a strategy script must define. It receives
// a state table and an array of legal moves and returns the 1-based index of the
// chosen move.
const luaEntryPoint = "choose_move"

// DefaultScriptTimeout bounds a single script decision.
const DefaultScriptTimeout = 200 * time.Millisecond

var ErrInvalidScript = errors.New("invalid strategy script")

// LuaBot delegates move choice to a Lua script. A script error or an out of
// range answer falls back to a random legal move.
type LuaBot struct {
	name     string
	proto    *lua.FunctionProto
	timeout  time.Duration
	fallback *RandomBot
	lastErr  error
}

// NewLuaBot compiles the script. name is used in error messages.
func NewLuaBot(name, script string, timeout time.Duration, rng *rand.Rand) (*LuaBot, error) {
	chunk, err := parse.Parse(strings.NewReader(script), name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScript, name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScript, name, err)
	}
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	return &LuaBot{name: name, proto: proto, timeout: timeout, fallback: NewRandomBot(rng)}, nil
}

// LoadLuaBot reads and compiles a script file.
func LoadLuaBot(path string, timeout time.Duration, rng *rand.Rand) (*LuaBot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read strategy script: %w", err)
	}
	return NewLuaBot(path, string(data), timeout, rng)
}

// LastError returns the script failure behind the most recent fallback, if any.
func (b *LuaBot) LastError() error {
	return b.lastErr
}

func (b *LuaBot) CalculateMove(game *domain.Game, player domain.PlayerID) (domain.Action, error) {
	moves := internal.GetValidMoves(game, player)
	if len(moves) == 0 {
		return domain.Action{}, ErrNoLegalMove
	}

	idx, err := b.choose(game, player, moves)
	b.lastErr = err
	if err != nil {
		return b.fallback.CalculateMove(game, player)
	}
	return moves[idx].Action, nil
}

func (b *LuaBot) OnEvent(any) {}

func (b *LuaBot) choose(game *domain.Game, player domain.PlayerID, moves []internal.ValidMove) (int, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	if err := openSafeLibs(L); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	L.SetContext(ctx)

	L.Push(L.NewFunctionFromProto(b.proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return 0, fmt.Errorf("%s: %w", b.name, err)
	}

	fn := L.GetGlobal(luaEntryPoint)
	if fn.Type() != lua.LTFunction {
		return 0, fmt.Errorf("%w: %s does not define %s", ErrInvalidScript, b.name, luaEntryPoint)
	}
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, stateTable(L, game, player), movesTable(L, moves)); err != nil {
		return 0, fmt.Errorf("%s: %w", b.name, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("%s: %s returned %s, want a number", b.name, luaEntryPoint, ret.Type())
	}
	idx := int(n) - 1
	if idx < 0 || idx >= len(moves) {
		return 0, fmt.Errorf("%s: move index %d out of range 1..%d", b.name, int(n), len(moves))
	}
	return idx, nil
}

// openSafeLibs loads the libraries a strategy needs, without io or os access.
func openSafeLibs(L *lua.LState) error {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.fn), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			return err
		}
	}
	for _, unsafe := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(unsafe, lua.LNil)
	}
	return nil
}

func cardTable(L *lua.LState, c domain.Card) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(c.ID))
	t.RawSetString("rank", lua.LNumber(c.Rank))
	t.RawSetString("suit", lua.LString(c.Suit))
	t.RawSetString("kind", lua.LString(c.Kind().String()))
	t.RawSetString("value", lua.LNumber(c.Value()))
	return t
}

func stateTable(L *lua.LState, game *domain.Game, player domain.PlayerID) *lua.LTable {
	state := L.NewTable()
	state.RawSetString("player", lua.LNumber(player))
	state.RawSetString("turn", lua.LNumber(game.Turn))
	state.RawSetString("min_sale", lua.LNumber(domain.MinSaleValue))
	state.RawSetString("max_sale", lua.LNumber(domain.MaxSaleValue))

	if p := game.Player(player); p != nil {
		hand := L.NewTable()
		for _, c := range p.Hand {
			hand.Append(cardTable(L, c))
		}
		state.RawSetString("hand", hand)
		state.RawSetString("pile_size", lua.LNumber(len(p.Pile)))
		state.RawSetString("opening_left", lua.LNumber(p.OpeningLeft))
	}

	caravans := L.NewTable()
	for _, c := range game.Caravans {
		ct := L.NewTable()
		ct.RawSetString("id", lua.LString(c.ID))
		ct.RawSetString("owner", lua.LNumber(c.Owner))
		ct.RawSetString("lane", lua.LString(c.Lane))
		ct.RawSetString("value", lua.LNumber(c.Value()))
		ct.RawSetString("layers", lua.LNumber(c.Len()))
		ct.RawSetString("direction", lua.LString(c.Direction().String()))
		ct.RawSetString("suit", lua.LString(c.Suit()))
		ct.RawSetString("mine", lua.LBool(c.Owner == player))
		caravans.RawSetString(string(c.ID), ct)
	}
	state.RawSetString("caravans", caravans)
	return state
}

func movesTable(L *lua.LState, moves []internal.ValidMove) *lua.LTable {
	out := L.NewTable()
	for _, m := range moves {
		t := L.NewTable()
		t.RawSetString("kind", lua.LString(m.Action.Kind))
		t.RawSetString("card_id", lua.LString(m.Action.Card))
		t.RawSetString("target_id", lua.LString(m.Action.Target))
		t.RawSetString("caravan", lua.LString(m.Caravan))
		if m.Action.Card != "" {
			t.RawSetString("card", cardTable(L, m.Card))
		}
		out.Append(t)
	}
	return out
}
