package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/nikahapp/matrimony-backend/api/admin"
	"github.com/nikahapp/matrimony-backend/api/auth"
	"github.com/nikahapp/matrimony-backend/api/profile"
	"github.com/nikahapp/matrimony-backend/api/request"
	_ "github.com/nikahapp/matrimony-backend/db"
	"github.com/nikahapp/matrimony-backend/db/store"
	"github.com/nikahapp/matrimony-backend/ledger"
	"github.com/nikahapp/matrimony-backend/mq"
	"github.com/nikahapp/matrimony-backend/notify"
	"github.com/nikahapp/matrimony-backend/server"
	"github.com/nikahapp/matrimony-backend/ws"
)

func cleanup() {
	mq.StopProducers()
	ws.GetHub().Close()
}

func main() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		cleanup()
		fmt.Println("quit")
		os.Exit(0)
	}()

	go ws.GetHub().Run()
	logger := log.New(os.Stdout, "matrimony-backend", log.LstdFlags|log.Lshortfile)

	r := chi.NewRouter()
	server.SetupMiddlewares(r)

	notifier := notify.NewNotifier(logger, store.Accounts{})
	svc := ledger.NewService(store.Requests{}, store.Accounts{}, store.Policies{}, notifier, notifier, logger)

	authHandlers := auth.NewHandlers(logger)
	authHandlers.SetupRoutes(r)

	reqHandlers := request.NewHandlers(logger, svc)
	reqHandlers.SetupRoutes(r)

	profileHandlers := profile.NewHandlers(logger, svc)
	profileHandlers.SetupRoutes(r)

	adminHandlers := admin.NewHandlers(logger)
	adminHandlers.SetupRoutes(r)

	wsHandlers := ws.NewHandlers(logger)
	wsHandlers.SetupRoutes(r)

	srv := server.New(r)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalln(err)
	}
}
