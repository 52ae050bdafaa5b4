package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/GestionGanadera/GG-Backend/internal/config"
	"github.com/GestionGanadera/GG-Backend/internal/db"
	"github.com/GestionGanadera/GG-Backend/internal/herd"
	"github.com/GestionGanadera/GG-Backend/internal/middleware"
	"github.com/GestionGanadera/GG-Backend/internal/observability"
	"github.com/GestionGanadera/GG-Backend/internal/sim"
	"github.com/GestionGanadera/GG-Backend/internal/zones"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")
	cfg := config.Load()

	db.Connect(cfg)
	ctx := context.Background()

	live, err := herd.NewLiveStore(ctx, cfg)
	if err != nil {
		// The Postgres record is authoritative; run degraded without the
		// geo index rather than refusing to start.
		log.Printf("redis unavailable, running without live state: %v", err)
		live = nil
	}

	registry, err := zones.LoadRegistry(ctx, db.DB)
	if err != nil {
		log.Fatal("zone registry: ", err)
	}

	store := herd.NewStore(db.DB)
	animals, err := store.All(ctx)
	if err != nil {
		log.Fatal("load herd: ", err)
	}
	log.Printf("loaded %d zones, %d animals", len(registry.Zones()), len(animals))

	metrics, err := observability.NewCollector(nil)
	if err != nil {
		log.Fatal("metrics: ", err)
	}

	notifiers := sim.MultiNotifier{sim.LogNotifier{}}
	sinks := []sim.StateSink{store}
	if live != nil {
		notifiers = append(notifiers, sim.NewPublishNotifier(live))
		sinks = append(sinks, live)
	}

	writer := sim.NewWriter(cfg.WriteBufferSize, metrics, sinks...)
	simulation := sim.NewSimulation(registry, animals, sim.Config{
		EscapeChance: cfg.EscapeChance,
		FlipChance:   cfg.FlipChance,
		Notifier:     notifiers,
		Writer:       writer,
		Metrics:      metrics,
	})
	scheduler := sim.NewScheduler(simulation, cfg.MovementTick, cfg.ConnectivityTick, writer)
	scheduler.Start(ctx)

	var index herd.RadiusIndex
	if live != nil {
		index = live
	}
	search := herd.NewService(store, index, cfg.FuzzyThreshold)

	var state herd.StateWriter
	if live != nil {
		state = live
	}
	handlers := herd.NewHandlers(search, store, state, registry, store)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.RateLimitMiddleware(cfg.RequestsPerSecond, cfg.RequestBurst))
	r.Get("/", RootHandler)
	r.Mount("/zones", zones.SetupRoutes(registry))
	r.Mount("/cattle", herd.SetupRoutes(handlers))
	r.Handle("/metrics", metrics.Handler())

	server := &http.Server{Addr: "0.0.0.0:" + cfg.HTTPPort, Handler: r}

	go func() {
		log.Printf("Server listening on port :%s...", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	scheduler.Stop()
	_ = server.Shutdown(ctx)
	if live != nil {
		_ = live.Close()
	}
}
