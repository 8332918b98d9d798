package models

import "sort"

// StandingEntry is one ranked participant of a competition
type StandingEntry struct {
	Rank            int         `json:"rank"`
	User            Participant `json:"user"`
	TotalPoints     int         `json:"totalPoints"`
	BetCount        int         `json:"betCount"`
	ExactScores     int         `json:"exactScores"`
	CorrectOutcomes int         `json:"correctOutcomes"`
	WinnerAccuracy  float64     `json:"winnerAccuracy"`
}

// ComputeStandings aggregates already-scored bets per participant and ranks them.
//
// Participants without bets are left out, and bets from users that are not
// participants are ignored. Entries are sorted by total points descending;
// equal totals keep the order of participants, which stores return in
// registration order.
func ComputeStandings(participants []User, bets []Bet) []StandingEntry {
	index := make(map[string]int, len(participants))
	entries := make([]StandingEntry, 0, len(participants))
	for _, user := range participants {
		if _, seen := index[user.ID]; seen {
			continue
		}
		index[user.ID] = len(entries)
		entries = append(entries, StandingEntry{User: user.ToParticipant()})
	}

	for _, bet := range bets {
		i, ok := index[bet.UserID]
		if !ok {
			continue
		}
		entry := &entries[i]
		entry.TotalPoints += bet.Points
		entry.BetCount++
		switch bet.Points {
		case PointsExact:
			entry.ExactScores++
		case PointsOutcome:
			entry.CorrectOutcomes++
		}
	}

	standings := make([]StandingEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.BetCount == 0 {
			continue
		}
		entry.WinnerAccuracy = accuracy(entry.CorrectOutcomes, entry.BetCount)
		standings = append(standings, entry)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].TotalPoints > standings[j].TotalPoints
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}

	return standings
}

// DetermineWinner returns the leader of the standings, or nil when nobody has bet
func DetermineWinner(standings []StandingEntry) *Participant {
	if len(standings) == 0 {
		return nil
	}
	winner := standings[0].User
	return &winner
}

// WinnerAccuracy is the percentage of bets that scored exactly one point.
// Exact-score bets are tracked separately and do not count here.
func WinnerAccuracy(bets []Bet) float64 {
	correct := 0
	for _, bet := range bets {
		if bet.Points == PointsOutcome {
			correct++
		}
	}
	return accuracy(correct, len(bets))
}

func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
