package infra

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "approval-relay"
)

// Каналы Pub/Sub (события)
const (
	// RedisChanApprovalDecisions — канал для трансляции доставленных решений апруверов.
	RedisChanApprovalDecisions = RedisNamespace + ":approvals:decisions"
)
