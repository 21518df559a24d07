package events

const (
	TopicCartItemAdded = "cart.item.added"
)

// Partition key = cart id, so all events of one cart keep their order.
func PartitionKey(cartID string) []byte { return []byte(cartID) }
