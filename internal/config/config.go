package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type SettlementConfig struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	OrderDB    `yaml:"order_db"`
	LogConfig  `yaml:"log_config"`
	Kafka      `yaml:"kafka"`
	Payout     `yaml:"payout-service"`
	Settlement `yaml:"settlement"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type OrderDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type Kafka struct {
	Host            string `yaml:"host"`
	Port            string `yaml:"port"`
	SettlementTopic string `yaml:"settlement_topic" env-default:"settlement-events"`
	DisputeTopic    string `yaml:"dispute_topic" env-default:"dispute-events"`
}

type Payout struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type Settlement struct {
	// ConfirmationWindow is the platform default between delivery and
	// auto-release; stores may override it upwards or downwards.
	ConfirmationWindow time.Duration `yaml:"confirmation_window" env-default:"96h"`
	SchedulerInterval  time.Duration `yaml:"scheduler_interval" env-default:"30s"`
	SchedulerBatchSize int           `yaml:"scheduler_batch_size" env-default:"100"`
}

func MustLoad() *SettlementConfig {

	// Processing env config variable and file
	configPath := os.Getenv("SETTLEMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("SETTLEMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg SettlementConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
