package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/senyabanana/sealed-tender/internal/db"
	"github.com/senyabanana/sealed-tender/internal/events"
	"github.com/senyabanana/sealed-tender/internal/handlers"
	"github.com/senyabanana/sealed-tender/internal/repository"
	"github.com/senyabanana/sealed-tender/internal/router"
	"github.com/senyabanana/sealed-tender/internal/router/config"
	"github.com/senyabanana/sealed-tender/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type storage struct {
	tenders     repository.TenderRepository
	commitments repository.CommitmentRepository
	companies   repository.CompanyRepository
	close       func()
}

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	logger := log.New(os.Stdout, "INFO: ", log.LstdFlags)

	store := openStorage(cfg, logger)
	defer store.close()

	publisher, closePublisher := openPublisher(cfg, logger)
	defer closePublisher()

	tenderService := services.NewTenderService(store.tenders, store.commitments, publisher, logger)
	bidService := services.NewBidService(store.commitments, store.tenders, publisher, logger)
	companyService := services.NewCompanyService(store.companies)
	ledger := services.NewLedger(tenderService, bidService)

	tenderHandler := handlers.NewTenderHandler(ledger, logger, cfg.RequestTimeout)
	bidHandler := handlers.NewBidHandler(ledger, logger, cfg.RequestTimeout)
	companyHandler := handlers.NewCompanyHandler(companyService, logger, cfg.RequestTimeout)

	routes := router.InitRoutes(tenderHandler, bidHandler, companyHandler)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           routes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("server is listening on %s...", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-done
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	log.Println("server stopped")
}

func openStorage(cfg config.Config, logger *log.Logger) storage {
	if cfg.Storage == config.StorageMemory {
		logger.Println("using in-memory storage")
		mem := repository.NewMemoryStore()
		return storage{tenders: mem, commitments: mem, companies: mem, close: func() {}}
	}

	runDBMigration(cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(context.Background(), cfg)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	return storage{
		tenders:     repository.NewPostgresTenderRepository(dbPool),
		commitments: repository.NewPostgresCommitmentRepository(dbPool),
		companies:   repository.NewPostgresCompanyRepository(dbPool),
		close:       dbPool.Close,
	}
}

func openPublisher(cfg config.Config, logger *log.Logger) (events.Publisher, func()) {
	if cfg.AMQPURL == "" {
		return events.LogPublisher{Logger: logger}, func() {}
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsExchange)
	if err != nil {
		log.Fatalf("error connecting to rabbitmq: %v", err)
	}
	logger.Printf("publishing events to exchange %s", cfg.EventsExchange)
	return publisher, publisher.Close
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up:", err)
	}
	log.Println("db migrated successfully")
}
