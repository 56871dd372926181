package game

// HandScore is one player's end-of-hand scoring breakdown.
type HandScore struct {
	Name         string `json:"name"`
	Brooms       int    `json:"brooms"`
	Cards        int    `json:"cards"`
	Diamonds     int    `json:"diamonds"`
	Primiera     int    `json:"primiera"`
	PrettySeven  bool   `json:"pretty_seven"`
	HighLadder   bool   `json:"high_ladder"`
	LowLadder    int    `json:"low_ladder"`
	MostCards    bool   `json:"most_cards"`
	MostDiamonds bool   `json:"most_diamonds"`
	BestPrimiera bool   `json:"best_primiera"`
	Total        int    `json:"total"`
	Points       int    `json:"points"` // cumulative score after this hand
}

// scoreHand computes every player's breakdown from their capture piles.
// The comparative awards (most cards, most diamonds, best primiera) go to
// the single player strictly ahead on the metric; an exact tie at the top
// voids the award for everyone.
func scoreHand(players []*Player) []HandScore {
	scores := make([]HandScore, len(players))
	for i, p := range players {
		scores[i] = tallyPile(p)
	}

	awardUnique(scores, func(s *HandScore) int { return s.Cards }, func(s *HandScore) { s.MostCards = true })
	awardUnique(scores, func(s *HandScore) int { return s.Diamonds }, func(s *HandScore) { s.MostDiamonds = true })
	awardUnique(scores, func(s *HandScore) int { return s.Primiera }, func(s *HandScore) { s.BestPrimiera = true })

	for i := range scores {
		s := &scores[i]
		s.Total = s.Brooms + s.LowLadder
		for _, held := range []bool{s.PrettySeven, s.MostCards, s.MostDiamonds, s.BestPrimiera} {
			if held {
				s.Total++
			}
		}
		if s.HighLadder {
			s.Total += 5
		}
	}
	return scores
}

func tallyPile(p *Player) HandScore {
	s := HandScore{
		Name:   p.Name,
		Brooms: p.Brooms,
		Cards:  len(p.Captured),
	}

	var suitMax [4]int
	diamondRanks := make(map[int]bool, 10)
	for _, c := range p.Captured {
		if v := c.PrimieraValue(); v > suitMax[c.Suit] {
			suitMax[c.Suit] = v
		}
		if c.Suit == Diamonds {
			s.Diamonds++
			diamondRanks[c.Rank] = true
			if c.Rank == 7 {
				s.PrettySeven = true
			}
		}
	}
	for _, v := range suitMax {
		s.Primiera += v
	}

	s.HighLadder = diamondRanks[8] && diamondRanks[9] && diamondRanks[10]

	run := 0
	for rank := 1; rank <= 7 && diamondRanks[rank]; rank++ {
		run++
	}
	if run >= 3 {
		s.LowLadder = run
	}

	return s
}

func awardUnique(scores []HandScore, metric func(*HandScore) int, grant func(*HandScore)) {
	best, winner, tied := -1, -1, false
	for i := range scores {
		switch v := metric(&scores[i]); {
		case v > best:
			best, winner, tied = v, i, false
		case v == best:
			tied = true
		}
	}
	if winner >= 0 && !tied {
		grant(&scores[winner])
	}
}
