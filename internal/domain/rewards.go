package domain

// CalculateRewards returns the coin payout per player for a concluded match,
// keyed by user id. Only the top half of the field is paid (the winner
// always is): the winner earns five times the base reward, second place
// three times, third place twice, everyone else in the top half once.
// Unpaid players are omitted from the result.
func CalculateRewards(placements map[string]int, baseReward int64) map[string]int64 {
	out := make(map[string]int64, len(placements))
	if baseReward <= 0 || len(placements) == 0 {
		return out
	}

	paidThrough := len(placements) / 2
	if paidThrough < 1 {
		paidThrough = 1
	}

	for userID, place := range placements {
		if place != 1 && place > paidThrough {
			continue
		}
		switch place {
		case 1:
			out[userID] = baseReward * 5
		case 2:
			out[userID] = baseReward * 3
		case 3:
			out[userID] = baseReward * 2
		default:
			out[userID] = baseReward
		}
	}
	return out
}
