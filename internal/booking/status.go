package booking

var allowedTransitions = map[Status][]Status{
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// NextStatuses lists the statuses a vendor may move a booking to. Every
// status missing from the table is terminal.
func NextStatuses(from Status) []Status {
	next := allowedTransitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

func CanTransition(from, to Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// RequiresCancellationReason is true for the one target status that needs a reason.
func RequiresCancellationReason(to Status) bool {
	return to == StatusCancelled
}
