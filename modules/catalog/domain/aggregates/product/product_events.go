package product

type CreatedEvent struct {
	Result *Product
}

type UpdatedEvent struct {
	Before *Product
	Result *Product
}

type DeletedEvent struct {
	Result *Product
}
