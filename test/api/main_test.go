package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"testing"
	"time"

	"github.com/waxbound/gamenight/internal/config"
	"github.com/waxbound/gamenight/internal/modules/tests"
	"github.com/waxbound/gamenight/internal/server"

	"github.com/docker/go-connections/nat"
	"github.com/joho/godotenv"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

type IntegrationTestFixture struct {
	client  *http.Client
	baseURL string
	db      *sql.DB
}

var fixture = IntegrationTestFixture{}

func TestMain(m *testing.M) {
	rootPath := "../../"
	if err := os.Setenv(config.RootPathEnv, rootPath); err != nil {
		log.Fatal(err)
	}

	localConfigPath := path.Join(rootPath, "config.local.env")
	if _, err := os.Stat(localConfigPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f, err := os.Create(localConfigPath)
			if err != nil {
				log.Fatal(err)
			}
			defer func() {
				if err := f.Close(); err != nil {
					log.Fatal(err)
				}
			}()

			if _, err := f.Write([]byte("SKIP_INFRASTRUCTURE=false")); err != nil {
				log.Fatal(err)
			}
		}
	}

	if err := godotenv.Load(path.Join(rootPath, "config.local.env")); err != nil {
		log.Fatal(err)
	}

	if err := godotenv.Load(path.Join(rootPath, "config.env")); err != nil {
		log.Fatal(err)
	}

	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conf.Logger = zap.NewNop()

	pgPort := nat.Port(fmt.Sprintf("%d", 5432))

	waitStrategies := map[string]wait.Strategy{
		"gamenight-postgres": wait.ForSQL(pgPort, "postgres", func(string, nat.Port) string { return conf.DatabaseURL }),
	}

	ctx := context.Background()

	composePath := path.Join(rootPath, "docker-compose.yml")
	f, err := tests.NewLocalTestFixture(composePath, waitStrategies)
	if err != nil {
		log.Fatal(err)
	}

	defer func() {
		if err := recover(); err != nil {
			fmt.Printf("unrecoverable error occurred: %+v", err)
		}
	}()

	defer func() {
		if err := f.Stop(ctx); err != nil {
			log.Fatal(err)
		}
	}()

	if err := f.Start(ctx); err != nil {
		log.Fatal(err)
	}

	if err := initFixture(conf); err != nil {
		log.Fatal(err)
	}

	srv, err := server.NewHTTPServer(conf)
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal(err)
		}
	}()

	if err := waitForServer(fixture.baseURL); err != nil {
		log.Fatal(err)
	}

	_ = m.Run()
}

func initFixture(config config.Config) error {
	fixture.client = &http.Client{}

	u := url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", "localhost", config.Port),
	}
	fixture.baseURL = u.String()

	db, err := sql.Open("postgres", config.DatabaseURL)
	if err != nil {
		return err
	}

	fixture.db = db

	return nil
}

func waitForServer(baseURL string) error {
	deadline := time.Now().Add(10 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := http.Get(fmt.Sprintf("%s/metrics", baseURL))
		if err == nil {
			_ = resp.Body.Close()
			return nil
		}

		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server at %s did not come up", baseURL)
}
