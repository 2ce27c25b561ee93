package main

import (
	"log"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/waxbound/gamenight/internal/config"
	"github.com/waxbound/gamenight/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) > 1 {
		rootPath := os.Args[1]
		if rootPath == "" {
			log.Fatal("root directory path is empty")
		}

		if err := godotenv.Load(path.Join(rootPath, "config.env")); err != nil {
			log.Fatal(err)
		}
	}

	config, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	srv, err := server.NewHTTPServer(config)
	if err != nil {
		log.Fatal(err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-stop
		if err := srv.Stop(); err != nil {
			log.Fatal(err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatal(err)
	}
}
