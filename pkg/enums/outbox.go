package enums

// OutboxEventType names a domain event stored in the outbox.
type OutboxEventType string

const (
	EventOrderPlaced     OutboxEventType = "order.placed"
	EventImportRequested OutboxEventType = "catalog.import_requested"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateOrder     OutboxAggregateType = "order"
	AggregateImportJob OutboxAggregateType = "import_job"
)
