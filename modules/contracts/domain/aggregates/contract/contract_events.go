package contract

type CreatedEvent struct {
	Result *Contract
}

type UpdatedEvent struct {
	Before *Contract
	Result *Contract
}

type DeletedEvent struct {
	Result *Contract
}
