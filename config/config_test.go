package config

import "testing"

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Scheduler.OrderCheckHour != 9 || cfg.Scheduler.OrderCheckMinute != 0 {
		t.Errorf("scheduler = %d:%d, want 9:0", cfg.Scheduler.OrderCheckHour, cfg.Scheduler.OrderCheckMinute)
	}
	if cfg.Kafka.Enabled || cfg.Redis.Enabled || cfg.Elastic.Enabled {
		t.Error("optional backends should default to disabled")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/farm.db")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := LoadEnv()
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "/tmp/farm.db" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:9092" {
		t.Errorf("Kafka.Brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("Redis.DB = %d, want fallback 0", cfg.Redis.DB)
	}
}
