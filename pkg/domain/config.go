package common

// MongoDBConfig holds connection settings for the rating store.
type MongoDBConfig struct {
	DBName      string
	URI         string
	PublicKey   string
	Certificate string
}

// RedisConfig holds connection settings for the leaderboard cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds connection settings for rating-event publishing.
type KafkaConfig struct {
	// Brokers is a comma separated list (ie: "kafka1:9092,kafka2:9092")
	Brokers string

	// Group is the consumer group used by downstream readers of rating events.
	Group string

	// Topics is a comma separated list of topic names, loaded from
	// KAFKA_TOPICS. The rating event publisher does not read it; it writes to
	// fixed topic names.
	Topics string

	// Verbose is loaded from KAFKA_VERBOSE (default: false). It is not passed
	// to the Kafka client.
	Verbose bool
}

// Config is the process-wide configuration for the rating engine and its
// HTTP read surface.
type Config struct {
	MongoDB MongoDBConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
}
