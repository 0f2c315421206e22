package booking

// Decide returns b moved out of WAITING: APPROVED when approve is true, REJECTED otherwise.
// The input is left untouched. Terminal bookings yield ErrAlreadyDecided.
func Decide(b *Booking, approve bool) (*Booking, error) {
	if b.Status != StatusWaiting {
		return nil, ErrAlreadyDecided
	}

	next := *b
	if approve {
		next.Status = StatusApproved
	} else {
		next.Status = StatusRejected
	}
	return &next, nil
}
