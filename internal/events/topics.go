package events

const (
	TopicTransactionInvoiced = "transaction.invoiced"
	TopicPointsAccrued       = "points.accrued"
)

var knownTopics = map[string]struct{}{
	TopicTransactionInvoiced: {},
	TopicPointsAccrued:       {},
}

// IsKnownTopic reports whether the bus accepts topic.
func IsKnownTopic(topic string) bool {
	_, ok := knownTopics[topic]
	return ok
}
