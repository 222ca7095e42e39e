package catalogsearch

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	keyPrefix string

	synonyms     map[string][]string
	synonymsPath string

	bleve          bool
	bleveIndexPath string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCredentials sets the Redis username and logical database.
func WithCredentials(username string, db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.db = db
	})
}

// WithKeyPrefix namespaces catalog keys in a shared keyspace.
// Default: "catalog:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithSynonyms replaces the built-in synonym dictionary with custom
// canonical-term -> equivalents entries.
func WithSynonyms(entries map[string][]string) Option {
	return optionFunc(func(c *clientConfig) {
		c.synonyms = entries
	})
}

// WithSynonymsFile loads the synonym dictionary from a YAML file.
func WithSynonymsFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.synonymsPath = path
	})
}

// WithBleve switches the search backend from the in-process relevance
// scorer to a bleve full-text index. An empty indexPath keeps the index
// in memory; otherwise it is persisted on disk.
func WithBleve(indexPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.bleve = true
		c.bleveIndexPath = indexPath
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
