package ioc

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	common "github.com/osu-tournament-rating/rating-engine/pkg/domain"
)

// buildMongoURI constructs a MongoDB connection URI with credentials if provided.
func buildMongoURI() string {
	uri := os.Getenv("MONGO_URI")

	user := os.Getenv("MONGODB_USER")
	password := os.Getenv("MONGODB_PASSWORD")

	if user != "" && password != "" {
		parsed, err := url.Parse(uri)
		if err == nil && parsed.User == nil {
			parsed.User = url.UserPassword(user, password)
			q := parsed.Query()
			if q.Get("authSource") == "" {
				q.Set("authSource", "admin")
				parsed.RawQuery = q.Encode()
			}
			return parsed.String()
		}
	}

	if uri == "" {
		host := os.Getenv("MONGODB_HOST")
		port := os.Getenv("MONGODB_PORT")
		dbName := os.Getenv("MONGODB_DATABASE")
		if host != "" && port != "" && dbName != "" {
			if user != "" && password != "" {
				uri = fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
					url.QueryEscape(user), url.QueryEscape(password), host, port, dbName)
			} else {
				uri = fmt.Sprintf("mongodb://%s:%s/%s", host, port, dbName)
			}
		}
	}

	return uri
}

func redisDB() int {
	db, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil {
		return 0
	}
	return db
}

// EnvironmentConfig builds a common.Config from the process environment,
// optionally loaded from a .env file by WithEnvFile.
func EnvironmentConfig() (common.Config, error) {
	config := common.Config{
		MongoDB: common.MongoDBConfig{
			URI:         buildMongoURI(),
			DBName:      os.Getenv("MONGODB_DATABASE"),
			PublicKey:   os.Getenv("MONGO_PUB_KEY"),
			Certificate: os.Getenv("MONGO_CERT"),
		},
		Redis: common.RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB(),
		},
		Kafka: common.KafkaConfig{
			Brokers: os.Getenv("KAFKA_BROKERS"),
			Group:   os.Getenv("KAFKA_GROUP"),
			Topics:  os.Getenv("KAFKA_TOPICS"),
			Verbose: os.Getenv("KAFKA_VERBOSE") == "true",
		},
	}

	return config, nil
}
