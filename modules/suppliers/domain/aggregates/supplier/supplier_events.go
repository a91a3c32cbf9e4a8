package supplier

type CreatedEvent struct {
	Result *Supplier
}

type UpdatedEvent struct {
	Before *Supplier
	Result *Supplier
}

type DeletedEvent struct {
	Result *Supplier
}
