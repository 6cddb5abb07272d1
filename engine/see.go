package engine

import "chess-core/board"

// SeePieceValue is the exchange value of each piece type. The king is large
// so that trading it away never looks profitable.
var SeePieceValue = [7]int{0, 100, 300, 300, 500, 900, 5000}

// SEE resolves the capture sequence started by m on its destination square and
// returns the material balance for the side making m. Sliders behind the
// capturing pieces join the exchange as the square opens up.
func SEE(p *board.Position, m board.Move) int {
	from, to := m.From(), m.To()
	us := p.SideToMove()

	var gain [32]int
	captured := p.PieceAt(to).Type()
	occ := p.Occupied() &^ board.SquareBB(from)
	if m.Kind() == board.EnPassant {
		captured = board.Pawn
		occ &^= board.SquareBB(to - board.PawnPush(us))
	}
	attacker := m.Piece()
	gain[0] = SeePieceValue[captured]
	if m.IsPromotion() {
		attacker = m.Promotion()
		gain[0] += SeePieceValue[attacker] - SeePieceValue[board.Pawn]
	}

	attackers := p.AttackersByOcc(to, occ) & occ
	side := us.Other()
	d := 0
	for {
		d++
		gain[d] = SeePieceValue[attacker] - gain[d-1]
		if max(-gain[d-1], gain[d]) < 0 {
			break
		}
		ours := attackers & p.ByColor(side)
		if ours == 0 {
			break
		}
		attacker = board.NoPieceType
		for pt := board.Pawn; pt <= board.King; pt++ {
			if bb := ours & p.ByType(pt); bb != 0 {
				attacker = pt
				occ &^= board.SquareBB(board.LSB(bb))
				break
			}
		}
		// A king may only take last.
		if attacker == board.King && attackers&p.ByColor(side.Other())&occ != 0 {
			break
		}
		attackers = p.AttackersByOcc(to, occ) & occ
		side = side.Other()
		if d == len(gain)-1 {
			break
		}
	}
	for d--; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}
	return gain[0]
}

// SEEAtLeast reports whether m wins at least threshold in the exchange.
func SEEAtLeast(p *board.Position, m board.Move, threshold int) bool {
	return SEE(p, m) >= threshold
}
