package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"mastodonbridge/src/helper/config"
)

func setenv(key, value string) {
	previous, existed := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(func() {
		if existed {
			os.Setenv(key, previous)
		} else {
			os.Unsetenv(key)
		}
	})
}

var _ = Describe("Config", func() {
	BeforeEach(func() {
		setenv("CONFIG_PATH", "")
	})

	It("should apply defaults", func() {
		cfg, err := config.Load()

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(8888))
		Expect(cfg.Redis.TTL).To(Equal(120 * time.Second))
		Expect(cfg.Remote.Enabled).To(BeTrue())
		Expect(cfg.Instance.ApplicationName).To(Equal("Kroeg"))
	})

	It("should let the environment override defaults", func() {
		setenv("SERVER_PORT", "9000")
		setenv("REDIS_HOSTS", "redis-1:6379,redis-2:6379")
		setenv("REMOTE_FETCH_TIMEOUT", "3s")
		setenv("LOG_LEVEL", "debug")

		cfg, err := config.Load()

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(9000))
		Expect(cfg.Redis.Enabled()).To(BeTrue())
		Expect(cfg.Remote.Timeout).To(Equal(3 * time.Second))
		Expect(cfg.Log.SlogLevel()).To(Equal(slog.LevelDebug))
	})

	It("should read a yaml file from CONFIG_PATH", func() {
		dir, err := os.MkdirTemp("", "config")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		path := filepath.Join(dir, "config.yaml")
		Expect(os.WriteFile(path, []byte("database:\n  write_host: db.internal\n  name: bridge\n  user: bridge\ninstance:\n  application_name: Bridge\n"), 0o600)).To(Succeed())
		setenv("CONFIG_PATH", path)

		cfg, err := config.Load()

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Database.WriteHost).To(Equal("db.internal"))
		Expect(cfg.Database.ReadHostOrWrite()).To(Equal("db.internal"))
		Expect(cfg.Instance.ApplicationName).To(Equal("Bridge"))
		Expect(cfg.ValidateDatabase()).To(Succeed())
	})

	It("should report every missing database setting", func() {
		cfg := &config.Config{}

		err := cfg.ValidateDatabase()

		Expect(err).To(MatchError(ContainSubstring("DB_WRITE_HOST")))
		Expect(err).To(MatchError(ContainSubstring("DB_NAME")))
		Expect(err).To(MatchError(ContainSubstring("DB_MAX_POOL_CONNECTIONS")))
	})

	It("should require brokers for the consumer", func() {
		cfg := &config.Config{Kafka: config.KafkaConfig{Topic: "entity-changes", BatchSize: 10}}

		Expect(cfg.ValidateKafka()).To(MatchError(ContainSubstring("KAFKA_BROKERS")))
	})

	It("should treat blank redis hosts as disabled", func() {
		Expect(config.RedisConfig{Hosts: "  "}.Enabled()).To(BeFalse())
	})
})
