package game

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

const (
	// NoPlayer marks an entry or index slot that carries no player.
	NoPlayer = -1
	// NotPresent marks a supply pile that is not part of this game.
	NotPresent = -1

	MinPlayers = 2
	MaxPlayers = 6
)

// Status tracks the lifecycle of a game.
type Status int

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusPaused
	StatusEnded
)

var statusNames = map[Status]string{
	StatusNotStarted: "NOT_STARTED",
	StatusInProgress: "IN_PROGRESS",
	StatusPaused:     "PAUSED",
	StatusEnded:      "ENDED",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS_%d", int(s))
}

// TurnCounters holds the per-turn resource counters for one player.
type TurnCounters struct {
	Actions int `json:"actions"`
	Buys    int `json:"buys"`
	Coins   int `json:"coins"`
	Cards   int `json:"cards"`
	Gains   int `json:"gains"`
	Discard int `json:"discard"`
	Potions int `json:"potions"`
}

// MatCounters holds the persistent mat resources for one player.
type MatCounters struct {
	Coffers   int `json:"coffers"`
	Villagers int `json:"villagers"`
	Debt      int `json:"debt"`
	Favors    int `json:"favors"`
}

// VictoryCounters holds one player's victory cards and tokens.
type VictoryCounters struct {
	Curses    int `json:"curses"`
	Estates   int `json:"estates"`
	Duchies   int `json:"duchies"`
	Provinces int `json:"provinces"`
	Colonies  int `json:"colonies"`
	Tokens    int `json:"tokens"`
	Other     int `json:"other"`
}

// Player is one seat at the table.
type Player struct {
	Name    string          `json:"name"`
	Color   string          `json:"color"`
	Turn    TurnCounters    `json:"turn"`
	NewTurn TurnCounters    `json:"newTurn"`
	Mats    MatCounters     `json:"mats"`
	Victory VictoryCounters `json:"victory"`
}

// Supply is the shared pool of cards available to gain. NotPresent (-1)
// marks a pile that is not in play for this game.
type Supply struct {
	Coppers   int `json:"coppers"`
	Silvers   int `json:"silvers"`
	Golds     int `json:"golds"`
	Platinums int `json:"platinums"`
	Potions   int `json:"potions"`
	Curses    int `json:"curses"`
	Estates   int `json:"estates"`
	Duchies   int `json:"duchies"`
	Provinces int `json:"provinces"`
	Colonies  int `json:"colonies"`
}

// Expansions flags which expansions are in play.
type Expansions struct {
	Prosperity  bool `json:"prosperity"`
	RisingSun   bool `json:"risingSun"`
	Renaissance bool `json:"renaissance"`
	Alchemy     bool `json:"alchemy"`
}

// MatOptions flags which mats are tracked.
type MatOptions struct {
	CoffersVillagers bool `json:"coffersVillagers"`
	Debt             bool `json:"debt"`
	Favors           bool `json:"favors"`
}

// GameOptions is the immutable per-game configuration chosen at setup.
type GameOptions struct {
	Curses     bool       `json:"curses"`
	Expansions Expansions `json:"expansions"`
	Mats       MatOptions `json:"mats"`
}

// DefaultGameOptions returns the base-game option set.
func DefaultGameOptions() GameOptions {
	return GameOptions{
		Curses: true,
		Mats:   MatOptions{CoffersVillagers: true, Debt: true, Favors: true},
	}
}

// Prophecy is the Rising Sun shared sun-token pool.
type Prophecy struct {
	Suns int `json:"suns"`
}

// RisingSunState tracks the Rising Sun expansion state.
type RisingSunState struct {
	Prophecy            Prophecy `json:"prophecy"`
	GreatLeaderProphecy bool     `json:"greatLeaderProphecy"`
}

// RenaissanceState tracks the Renaissance expansion state.
type RenaissanceState struct {
	FlagEnabled bool `json:"flagEnabled"`
	FlagHolder  int  `json:"flagHolder"`
}

// PlayerSetup is one roster entry handed to NewGame.
type PlayerSetup struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// GameSetup is everything needed to (re)create a game's initial state.
type GameSetup struct {
	Players          []PlayerSetup `json:"players"`
	Options          GameOptions   `json:"options"`
	FirstPlayerIndex int           `json:"firstPlayerIndex"`
	GreatLeader      bool          `json:"greatLeader"`
}

// Game is the full derived state of one tracked game. It is only ever
// produced by NewGame or by folding log entries through ApplyLogAction;
// callers replace it wholesale, never edit it in place.
type Game struct {
	ID                    uuid.UUID        `json:"id"`
	Players               []Player         `json:"players"`
	Supply                Supply           `json:"supply"`
	Options               GameOptions      `json:"options"`
	Setup                 GameSetup        `json:"setup"`
	Status                Status           `json:"status"`
	CurrentTurn           int              `json:"currentTurn"`
	CurrentPlayerIndex    int              `json:"currentPlayerIndex"`
	SelectedPlayerIndex   int              `json:"selectedPlayerIndex"`
	FirstPlayerIndex      int              `json:"firstPlayerIndex"`
	Log                   []LogEntry       `json:"log"`
	TurnStatisticsCache   []TurnStatistics `json:"turnStatisticsCache"`
	PendingGroupedActions []PendingAction  `json:"pendingGroupedActions"`
	RisingSun             RisingSunState   `json:"risingSun"`
	Renaissance           RenaissanceState `json:"renaissance"`
}

// defaultTurnCounters are the counters every player starts each turn with.
func defaultTurnCounters() TurnCounters {
	return TurnCounters{Actions: 1, Buys: 1, Cards: 5}
}

// sunTokensByPlayerCount holds the Rising Sun setup table.
var sunTokensByPlayerCount = map[int]int{2: 5, 3: 8, 4: 10, 5: 12, 6: 13}

// baseSupply returns the shared piles for the given player count, before
// expansion adjustments and initial-card distribution.
func baseSupply(numPlayers int, options GameOptions) Supply {
	victoryPile := 12
	if numPlayers == 2 {
		victoryPile = 8
	}
	provinces := victoryPile
	switch numPlayers {
	case 5:
		provinces = 15
	case 6:
		provinces = 18
	}
	coppers := 60
	silvers := 40
	golds := 30
	if numPlayers > 4 {
		coppers, silvers, golds = 120, 80, 60
	}

	s := Supply{
		Coppers:   coppers,
		Silvers:   silvers,
		Golds:     golds,
		Estates:   victoryPile,
		Duchies:   victoryPile,
		Provinces: provinces,
		Curses:    10 * (numPlayers - 1),
		Platinums: NotPresent,
		Colonies:  NotPresent,
		Potions:   NotPresent,
	}
	if !options.Curses {
		s.Curses = NotPresent
	}
	if options.Expansions.Prosperity {
		s.Platinums = 12
		colonies := 12
		if numPlayers == 2 {
			colonies = 8
		}
		s.Colonies = colonies
	}
	if options.Expansions.Alchemy {
		s.Potions = 16
	}
	return s
}

// NewGame builds the canonical initial state for a roster and option set.
// The result is what ReconstructGameState folds the log over; the first
// applied entry must be a start-game entry.
func NewGame(setup GameSetup) (Game, error) {
	n := len(setup.Players)
	if n < MinPlayers {
		return Game{}, ErrMinPlayers
	}
	if n > MaxPlayers {
		return Game{}, ErrMaxPlayers
	}
	if setup.FirstPlayerIndex < 0 || setup.FirstPlayerIndex >= n {
		return Game{}, &InvalidPlayerIndexError{PlayerIndex: setup.FirstPlayerIndex, Action: ActionStartGame}
	}

	players := make([]Player, n)
	for i, ps := range setup.Players {
		players[i] = Player{
			Name:    ps.Name,
			Color:   ps.Color,
			Turn:    defaultTurnCounters(),
			NewTurn: defaultTurnCounters(),
		}
	}

	supply := baseSupply(n, setup.Options)
	// Each player starts with 7 coppers from the supply and 3 estates that
	// are dealt from outside the victory pile.
	for i := range players {
		players[i].Victory.Estates = 3
	}
	supply.Coppers -= 7 * n

	g := Game{
		ID:                  uuid.New(),
		Players:             players,
		Supply:              supply,
		Options:             setup.Options,
		Setup:               setup,
		Status:              StatusNotStarted,
		CurrentTurn:         1,
		CurrentPlayerIndex:  setup.FirstPlayerIndex,
		SelectedPlayerIndex: setup.FirstPlayerIndex,
		FirstPlayerIndex:    setup.FirstPlayerIndex,
		Renaissance:         RenaissanceState{FlagHolder: NoPlayer},
	}
	if setup.Options.Expansions.RisingSun {
		g.RisingSun.Prophecy.Suns = sunTokensByPlayerCount[n]
		g.RisingSun.GreatLeaderProphecy = setup.GreatLeader
	}
	return g, nil
}

// Copy returns a deep copy of the game state.
func (g Game) Copy() Game {
	out := g
	out.Players = make([]Player, len(g.Players))
	copy(out.Players, g.Players)
	out.Log = make([]LogEntry, len(g.Log))
	for i, e := range g.Log {
		out.Log[i] = e.Copy()
	}
	out.TurnStatisticsCache = make([]TurnStatistics, len(g.TurnStatisticsCache))
	for i, ts := range g.TurnStatisticsCache {
		out.TurnStatisticsCache[i] = ts.Copy()
	}
	out.PendingGroupedActions = make([]PendingAction, len(g.PendingGroupedActions))
	copy(out.PendingGroupedActions, g.PendingGroupedActions)
	return out
}

// ValidPlayerIndex reports whether i addresses a player in this game.
func (g Game) ValidPlayerIndex(i int) bool {
	return i >= 0 && i < len(g.Players)
}

// NextPlayerIndex returns the seat after the current player.
func (g Game) NextPlayerIndex() int {
	if len(g.Players) == 0 {
		return NoPlayer
	}
	return (g.CurrentPlayerIndex + 1) % len(g.Players)
}

// PreviousPlayerIndex returns the seat before the current player.
func (g Game) PreviousPlayerIndex() int {
	if len(g.Players) == 0 {
		return NoPlayer
	}
	return (g.CurrentPlayerIndex - 1 + len(g.Players)) % len(g.Players)
}

// PlayerNextTurn returns the turn number at which the given player next
// becomes the current player. If the player is already current, their next
// turn is a full round away.
func (g Game) PlayerNextTurn(playerIndex int) int {
	n := len(g.Players)
	if n == 0 || !g.ValidPlayerIndex(playerIndex) {
		return g.CurrentTurn
	}
	distance := (playerIndex - g.CurrentPlayerIndex + n) % n
	if distance == 0 {
		distance = n
	}
	return g.CurrentTurn + distance
}

// Victory point values per card.
const (
	vpEstate   = 1
	vpDuchy    = 3
	vpProvince = 6
	vpColony   = 10
	vpCurse    = -1
)

// VictoryPoints totals a player's score.
func VictoryPoints(p Player) int {
	v := p.Victory
	return v.Estates*vpEstate +
		v.Duchies*vpDuchy +
		v.Provinces*vpProvince +
		v.Colonies*vpColony +
		v.Curses*vpCurse +
		v.Tokens +
		v.Other
}

// PlayerRank pairs a player index with its computed score and shared rank.
type PlayerRank struct {
	PlayerIndex int
	Score       int
	Rank        int
}

// RankPlayers orders players by score descending. Tied players share a rank;
// ties are listed in name order for stable output.
func RankPlayers(g Game) []PlayerRank {
	ranks := make([]PlayerRank, len(g.Players))
	for i := range g.Players {
		ranks[i] = PlayerRank{PlayerIndex: i, Score: VictoryPoints(g.Players[i])}
	}
	sort.SliceStable(ranks, func(a, b int) bool {
		if ranks[a].Score != ranks[b].Score {
			return ranks[a].Score > ranks[b].Score
		}
		return g.Players[ranks[a].PlayerIndex].Name < g.Players[ranks[b].PlayerIndex].Name
	})
	for i := range ranks {
		if i > 0 && ranks[i].Score == ranks[i-1].Score {
			ranks[i].Rank = ranks[i-1].Rank
			continue
		}
		ranks[i].Rank = i + 1
	}
	return ranks
}

// counterValue reads one player counter addressed by field/subfield.
func counterValue(p *Player, field Field, subfield Subfield) (int, error) {
	switch field {
	case FieldTurn:
		return turnCounterValue(&p.Turn, subfield)
	case FieldNewTurn:
		return turnCounterValue(&p.NewTurn, subfield)
	case FieldMats:
		switch subfield {
		case SubfieldCoffers:
			return p.Mats.Coffers, nil
		case SubfieldVillagers:
			return p.Mats.Villagers, nil
		case SubfieldDebt:
			return p.Mats.Debt, nil
		case SubfieldFavors:
			return p.Mats.Favors, nil
		}
	case FieldVictory:
		switch subfield {
		case SubfieldCurses:
			return p.Victory.Curses, nil
		case SubfieldEstates:
			return p.Victory.Estates, nil
		case SubfieldDuchies:
			return p.Victory.Duchies, nil
		case SubfieldProvinces:
			return p.Victory.Provinces, nil
		case SubfieldColonies:
			return p.Victory.Colonies, nil
		case SubfieldTokens:
			return p.Victory.Tokens, nil
		case SubfieldOther:
			return p.Victory.Other, nil
		}
	}
	return 0, &InvalidFieldError{Field: field, Subfield: subfield}
}

func turnCounterValue(tc *TurnCounters, subfield Subfield) (int, error) {
	switch subfield {
	case SubfieldActions:
		return tc.Actions, nil
	case SubfieldBuys:
		return tc.Buys, nil
	case SubfieldCoins:
		return tc.Coins, nil
	case SubfieldCards:
		return tc.Cards, nil
	case SubfieldGains:
		return tc.Gains, nil
	case SubfieldDiscard:
		return tc.Discard, nil
	case SubfieldPotions:
		return tc.Potions, nil
	}
	return 0, &InvalidFieldError{Field: FieldTurn, Subfield: subfield}
}

// setCounterValue writes one player counter addressed by field/subfield.
func setCounterValue(p *Player, field Field, subfield Subfield, value int) error {
	switch field {
	case FieldTurn:
		return setTurnCounterValue(&p.Turn, subfield, value)
	case FieldNewTurn:
		return setTurnCounterValue(&p.NewTurn, subfield, value)
	case FieldMats:
		switch subfield {
		case SubfieldCoffers:
			p.Mats.Coffers = value
			return nil
		case SubfieldVillagers:
			p.Mats.Villagers = value
			return nil
		case SubfieldDebt:
			p.Mats.Debt = value
			return nil
		case SubfieldFavors:
			p.Mats.Favors = value
			return nil
		}
	case FieldVictory:
		switch subfield {
		case SubfieldCurses:
			p.Victory.Curses = value
			return nil
		case SubfieldEstates:
			p.Victory.Estates = value
			return nil
		case SubfieldDuchies:
			p.Victory.Duchies = value
			return nil
		case SubfieldProvinces:
			p.Victory.Provinces = value
			return nil
		case SubfieldColonies:
			p.Victory.Colonies = value
			return nil
		case SubfieldTokens:
			p.Victory.Tokens = value
			return nil
		case SubfieldOther:
			p.Victory.Other = value
			return nil
		}
	}
	return &InvalidFieldError{Field: field, Subfield: subfield}
}

func setTurnCounterValue(tc *TurnCounters, subfield Subfield, value int) error {
	switch subfield {
	case SubfieldActions:
		tc.Actions = value
	case SubfieldBuys:
		tc.Buys = value
	case SubfieldCoins:
		tc.Coins = value
	case SubfieldCards:
		tc.Cards = value
	case SubfieldGains:
		tc.Gains = value
	case SubfieldDiscard:
		tc.Discard = value
	case SubfieldPotions:
		tc.Potions = value
	default:
		return &InvalidFieldError{Field: FieldTurn, Subfield: subfield}
	}
	return nil
}

// supplyPile returns a pointer to the supply pile backing a victory subfield,
// or nil when the subfield has no supply-linked pile (tokens, other).
func supplyPile(s *Supply, subfield Subfield) *int {
	switch subfield {
	case SubfieldCurses:
		return &s.Curses
	case SubfieldEstates:
		return &s.Estates
	case SubfieldDuchies:
		return &s.Duchies
	case SubfieldProvinces:
		return &s.Provinces
	case SubfieldColonies:
		return &s.Colonies
	}
	return nil
}
