package booking

// CanApprove reports whether requesterID may approve or reject b.
func CanApprove(b *Booking, requesterID string) bool {
	return b.ItemOwnerID == requesterID
}

// CanView reports whether requesterID may read b.
func CanView(b *Booking, requesterID string) bool {
	return b.ItemOwnerID == requesterID || b.BookerID == requesterID
}
