package handlers

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	Booking      *BookingHandler
	Webhook      *WebhookHandler
	Gym          *GymHandler
	Space        *SpaceHandler
	Availability *AvailabilityHandler
	Storage      *StorageHandler
}
