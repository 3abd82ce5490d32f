package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"freight/cmd"
)

func main() {
	configs := getConfigs()
	logger := slog.Default()

	app, err := cmd.NewCompositionRoot(configs, logger)
	if err != nil {
		log.Fatalf("Error wiring the application: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	logger.Info("freight core started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("freight core stopping")
}

func getConfigs() cmd.Config {
	return cmd.Config{
		BrokerAPIURL:    goDotEnvVariable("BROKER_API_URL"),
		GoogleAPIKey:    goDotEnvVariable("GOOGLE_API_KEY"),
		RedisAddr:       goDotEnvVariable("REDIS_ADDR"),
		RedisPassword:   goDotEnvVariable("REDIS_PASSWORD"),
		GeocodeCacheTTL: goDotEnvVariable("GEOCODE_CACHE_TTL"),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}
