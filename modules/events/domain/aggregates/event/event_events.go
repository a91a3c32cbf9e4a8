package event

type CreatedEvent struct {
	Result *Event
}

type UpdatedEvent struct {
	Before *Event
	Result *Event
}

type DeletedEvent struct {
	Result *Event
}
