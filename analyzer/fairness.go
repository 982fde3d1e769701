package analyzer

import (
	"github.com/shopspring/decimal"

	"github.com/neurosurgery/scheduler/domain"
)

var (
	defaultHistoricalRate    = decimal.NewFromFloat(0.5)
	defaultPeerAverageDaysOff = decimal.NewFromInt(10)
	hundred                  = decimal.NewFromInt(100)
	thirty                   = decimal.NewFromInt(30)
	twenty                   = decimal.NewFromInt(20)
	ten                      = decimal.NewFromInt(10)
	fifteen                  = decimal.NewFromInt(15)
	five                     = decimal.NewFromInt(5)
	oneHalf                  = decimal.NewFromFloat(0.5)
	oneAndOneFifth           = decimal.NewFromFloat(1.2)
	oneAndOneHalf            = decimal.NewFromFloat(1.5)
	two                      = decimal.NewFromInt(2)
)

// assessFairness implements §4.5 Fairness over the trailing 6 months.
func assessFairness(req domain.LeaveRequest, resident domain.Resident, historicalLeave []domain.LeaveRequest, peerLeave map[domain.ResidentID][]domain.LeaveRequest, peers []domain.Resident) domain.FairnessAssessment {
	recentDaysOff := 0
	approvedSameMonth := 0
	totalSameMonth := 0
	for _, l := range historicalLeave {
		if l.Status == domain.LeaveStatusApproved {
			recentDaysOff += l.Days()
		}
		if l.StartDate.Month() == req.StartDate.Month() {
			totalSameMonth++
			if l.Status == domain.LeaveStatusApproved {
				approvedSameMonth++
			}
		}
	}

	historicalRate := defaultHistoricalRate
	if totalSameMonth > 0 {
		historicalRate = decimal.NewFromInt(int64(approvedSameMonth)).DivRound(decimal.NewFromInt(int64(totalSameMonth)), 6)
	}

	peerAverage := defaultPeerAverageDaysOff
	if len(peers) > 0 {
		total := 0
		for _, peer := range peers {
			for _, l := range peerLeave[peer.ID] {
				if l.Status == domain.LeaveStatusApproved {
					total += l.Days()
				}
			}
		}
		peerAverage = decimal.NewFromInt(int64(total)).DivRound(decimal.NewFromInt(int64(len(peers))), 6)
	}

	peerComparison := decimal.Zero
	if peerAverage.IsPositive() {
		peerComparison = decimal.NewFromInt(int64(recentDaysOff)).DivRound(peerAverage, 6)
	}

	score := hundred
	days := decimal.NewFromInt(int64(recentDaysOff))
	switch {
	case days.GreaterThan(fifteen):
		score = score.Sub(thirty)
	case days.GreaterThan(ten):
		score = score.Sub(twenty)
	case days.GreaterThan(five):
		score = score.Sub(ten)
	}

	switch {
	case peerComparison.GreaterThan(oneAndOneHalf):
		score = score.Sub(twenty)
	case peerComparison.GreaterThan(oneAndOneFifth):
		score = score.Sub(ten)
	}

	if peerComparison.LessThan(oneHalf) {
		score = score.Add(ten)
	}

	score = score.Add(two.Mul(decimal.NewFromInt(int64(resident.PGYLevel))))

	if score.IsNegative() {
		score = decimal.Zero
	}
	if score.GreaterThan(hundred) {
		score = hundred
	}

	return domain.FairnessAssessment{
		RecentDaysOff:  recentDaysOff,
		HistoricalRate: historicalRate,
		PeerComparison: peerComparison,
		Score:          score,
	}
}
