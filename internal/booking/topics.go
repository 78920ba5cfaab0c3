package booking

import "strconv"

const (
	TopicBookingCreated = "booking.created"
	TopicBookingUpdated = "booking.updated"
	TopicBookingDeleted = "booking.deleted"
	TopicInvoiceIssued  = "booking.invoice.issued"
)

var AllTopics = []string{TopicBookingCreated, TopicBookingUpdated, TopicBookingDeleted, TopicInvoiceIssued}

// PartitionKey = booking id, so every event of one booking stays ordered.
func PartitionKey(bookingID int64) string { return strconv.FormatInt(bookingID, 10) }
