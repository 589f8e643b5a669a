package game

// Phase of the game, derived only from the number of discs on the board.
type Phase int

const (
	Early Phase = iota
	Mid
	Late
)

func (p Phase) String() string {
	switch p {
	case Early:
		return "early"
	case Mid:
		return "mid"
	default:
		return "late"
	}
}

// Tunables for the heuristic evaluation. They are policy constants, the
// searches never adjust them per call.
const (
	// EarlyPhaseDiscs and MidPhaseDiscs are the exclusive upper bounds of
	// the early and middle game.
	EarlyPhaseDiscs = 20
	MidPhaseDiscs   = 45

	// WinScore dominates any heuristic value so proven results always win.
	WinScore = 100000.0

	StabilityWeight = 20.0
)

// Weights is the static value of owning each cell. Corners are prized,
// X-squares and C-squares next to corners are dangerous, safe edges are
// worth a little and the interior is close to neutral.
var Weights = [Size][Size]float64{
	{100, -25, 10, 5, 5, 10, -25, 100},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{10, -2, -1, -1, -1, -1, -2, 10},
	{5, -2, -1, -1, -1, -1, -2, 5},
	{5, -2, -1, -1, -1, -1, -2, 5},
	{10, -2, -1, -1, -1, -1, -2, 10},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{100, -25, 10, 5, 5, 10, -25, 100},
}

// MobilityWeight rewards having more moves than the opponent, mostly before
// the endgame so the player is not squeezed into a forced pass.
var MobilityWeight = [...]float64{Early: 10, Mid: 10, Late: 5}

// CoinWeight is negative before the endgame (fewer discs keep more options
// open) and large once the disc count is what decides the game.
var CoinWeight = [...]float64{Early: -1, Mid: -1, Late: 10}

// PhaseOf classifies the board by total discs.
func PhaseOf(b *Board) Phase {
	discs := b.Discs()
	switch {
	case discs < EarlyPhaseDiscs:
		return Early
	case discs < MidPhaseDiscs:
		return Mid
	default:
		return Late
	}
}

// Weight is the positional weight of the cell a move lands on.
func Weight(m Move) float64 {
	return Weights[m.Row][m.Col]
}

// EvaluateHeuristic combines positional weights, mobility, coin parity and
// corner-anchored stability into a score from p's perspective. Terminal
// boards score ±WinScore plus the disc margin.
func EvaluateHeuristic(b *Board, p Color) float64 {
	if b.IsTerminal() {
		return terminalScore(b, p)
	}
	opponent := p.Opponent()
	phase := PhaseOf(b)

	positional := b.calculatePositionalScore(p)

	mobility := float64(len(b.LegalMoves(p))-len(b.LegalMoves(opponent))) * MobilityWeight[phase]

	coins := float64(b.Count(p)-b.Count(opponent)) * CoinWeight[phase]

	stability := float64(b.countStable(p)-b.countStable(opponent)) * StabilityWeight

	return positional + mobility + coins + stability
}

// EvaluateDiscs is the plain disc differential, with the same terminal
// override as EvaluateHeuristic.
func EvaluateDiscs(b *Board, p Color) float64 {
	if b.IsTerminal() {
		return terminalScore(b, p)
	}
	return float64(b.Count(p) - b.Count(p.Opponent()))
}

func terminalScore(b *Board, p Color) float64 {
	margin := float64(b.Count(p) - b.Count(p.Opponent()))
	switch b.Winner().Winner() {
	case p:
		return WinScore + margin
	case p.Opponent():
		return -WinScore + margin
	default:
		return 0
	}
}

func (b *Board) calculatePositionalScore(p Color) float64 {
	opponent := p.Opponent()
	score := 0.0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			switch b.cells[r][c] {
			case p:
				score += Weights[r][c]
			case opponent:
				score -= Weights[r][c]
			}
		}
	}
	return score
}

// countStable approximates stable discs: every corner owned by p counts,
// plus the unbroken run of p's discs leaving that corner along its row and
// along its column. The run stops at the first cell that is not p's.
// This misses some genuinely stable shapes; the weights are tuned against
// this exact count.
func (b *Board) countStable(p Color) int {
	stable := 0
	for _, corner := range [4][2]int{{0, 0}, {0, Size - 1}, {Size - 1, 0}, {Size - 1, Size - 1}} {
		r, c := corner[0], corner[1]
		if b.cells[r][c] != p {
			continue
		}
		stable++

		dc := 1
		if c != 0 {
			dc = -1
		}
		for i := 1; i < Size-1; i++ {
			if b.cells[r][c+i*dc] != p {
				break
			}
			stable++
		}

		dr := 1
		if r != 0 {
			dr = -1
		}
		for i := 1; i < Size-1; i++ {
			if b.cells[r+i*dr][c] != p {
				break
			}
			stable++
		}
	}
	return stable
}
