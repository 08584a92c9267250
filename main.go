package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/khomiakmaxim/weather-cli/apis/openweathermap"
	"github.com/khomiakmaxim/weather-cli/apis/weatherapi"
	"github.com/khomiakmaxim/weather-cli/cli"
	"github.com/khomiakmaxim/weather-cli/config"
	"github.com/khomiakmaxim/weather-cli/manager"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %s", err)
	}

	creds, err := manager.LoadCredentials()
	if err != nil {
		log.Fatalf("load credentials: %s", err)
	}

	settingsPath, err := config.DefaultPath()
	if err != nil {
		log.Fatalf("settings path: %s", err)
	}

	settings, err := config.Load(settingsPath)
	if err != nil {
		log.Fatalf("load settings: %s", err)
	}

	weatherManager := manager.New()
	weatherManager.Register(manager.OpenWeatherMap, openweathermap.New(creds[manager.OpenWeatherMap]))
	weatherManager.Register(manager.WeatherAPI, weatherapi.New(creds[manager.WeatherAPI]))

	preferred := manager.DefaultProvider
	if settings.ProviderName != "" {
		name, err := manager.ParseProviderName(settings.ProviderName)
		if err != nil {
			log.Printf("ignoring persisted provider %q: %s", settings.ProviderName, err)
		} else {
			preferred = name
		}
	}

	active, fellBack := weatherManager.Activate(preferred)
	if fellBack {
		log.Printf("provider %s is not available, using %s instead", preferred, active)
	}

	cmd, err := cli.New(weatherManager, settingsPath)
	if err != nil {
		log.Fatalf("new cli: %s", err)
	}

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
