//nolint:lll,gocyclo,forbidigo
package main

import (
	"context"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/joho/godotenv"
	"go.senan.xyz/flagconf"
	"golang.org/x/sync/errgroup"

	"go.senan.xyz/fyyur"
	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/directory"
	"go.senan.xyz/fyyur/handlerutil"
	"go.senan.xyz/fyyur/seed"
	"go.senan.xyz/fyyur/server/ctrlweb"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("error running fyyur: %v\n", err)
	}
}

func run() error {
	confListenAddr := flag.String("listen-addr", "0.0.0.0:5000", "listen address (optional)")

	confTLSCert := flag.String("tls-cert", "", "path to TLS certificate (optional)")
	confTLSKey := flag.String("tls-key", "", "path to TLS private key (optional)")

	confDBDriver := flag.String("db-driver", db.DriverSQLite, "database driver, one of sqlite3, postgres, mysql (optional)")
	confDBPath := flag.String("db-path", "fyyur.db", "path to sqlite database (optional)")
	confDBDSN := flag.String("db-dsn", "", "data source name for the postgres or mysql drivers (optional)")

	confSeedPath := flag.String("seed-path", "", "path to a yaml file of venues, artists, and shows to load into an empty database (optional)")
	confSeedDemo := flag.Bool("seed-demo", false, "load the built in demo listings into an empty database (optional)")

	confProxyPrefix := flag.String("proxy-prefix", "", "url path prefix to use if behind proxy. eg '/fyyur' (optional)")
	confHTTPLog := flag.Bool("http-log", true, "http request logging (optional)")

	confExpvar := flag.Bool("expvar", false, "enable the /debug/vars endpoint (optional)")

	confShowVersion := flag.Bool("version", false, "show fyyur version")
	confConfigPath := flag.String("config-path", "", "path to config (optional)")

	if err := loadEnvFile(); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	flag.Parse()
	if err := flagconf.ParseEnv(); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if err := flagconf.ParseConfig(*confConfigPath); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if *confShowVersion {
		fmt.Printf("v%s\n", fyyur.Version)
		return nil
	}

	var dbc *db.DB
	var err error
	switch *confDBDriver {
	case db.DriverSQLite:
		dbc, err = db.New(*confDBPath, db.DefaultOptions())
	default:
		dbc, err = db.NewDSN(*confDBDriver, *confDBDSN)
	}
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer dbc.Close()

	if err := dbc.Migrate(db.MigrationContext{Driver: *confDBDriver}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	proxyPrefixExpr := regexp.MustCompile(`^\/*(.*?)\/*$`)
	*confProxyPrefix = proxyPrefixExpr.ReplaceAllString(*confProxyPrefix, `/$1`)

	log.Printf("starting fyyur v%s\n", fyyur.Version)
	log.Printf("provided config\n")
	flag.VisitAll(func(f *flag.Flag) {
		value := strings.ReplaceAll(f.Value.String(), "\n", "")
		if f.Name == "db-dsn" && value != "" {
			value = "<redacted>"
		}
		log.Printf("    %-25s %s\n", f.Name, value)
	})

	store := directory.New(dbc)

	if err := applySeed(store, *confSeedPath, *confSeedDemo); err != nil {
		log.Printf("error seeding database: %v\n", err)
	}

	sessKey, err := ctrlweb.SessionKey(dbc)
	if err != nil {
		return fmt.Errorf("get session key: %w", err)
	}
	sessDB := ctrlweb.NewSessionStore(dbc, sessKey)

	ctrlWeb, err := ctrlweb.New(store, sessDB, *confProxyPrefix)
	if err != nil {
		return fmt.Errorf("create web controller: %w", err)
	}

	mux := http.NewServeMux()
	ctrlweb.AddRoutes(ctrlWeb, mux)

	if *confExpvar {
		mux.Handle("GET /debug/vars", expvar.Handler())
		expvar.Publish("stats", expvar.Func(func() any {
			counts, err := store.Counts()
			if err != nil {
				return err.Error()
			}
			return counts
		}))
	}

	handler := withProxyPrefix(ctrlWeb.Handler(mux, *confHTTPLog), *confProxyPrefix)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Addr:              *confListenAddr,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g.Go(func() error {
		log.Print("starting job 'http'\n")
		var err error
		if *confTLSCert != "" && *confTLSKey != "" {
			err = server.ListenAndServeTLS(*confTLSCert, *confTLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Print("stopping job 'http'\n")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		log.Printf("starting job 'session clean'\n")
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				sessDB.Cleanup()
			}
		}
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("job: %w", err)
	}
	return nil
}

// withProxyPrefix serves the handler under prefix, sending anything outside
// it to the prefix root
func withProxyPrefix(handler http.Handler, prefix string) http.Handler {
	if prefix == "/" {
		return handler
	}
	mux := http.NewServeMux()
	mux.Handle(prefix+"/", http.StripPrefix(prefix, handler))
	mux.Handle("/", handlerutil.Redirect(prefix+"/"))
	return mux
}

// loadEnvFile reads key=value pairs into the environment before the flags
// are parsed from it. variables already set take precedence
func loadEnvFile() error {
	path := os.Getenv(fyyur.NameUpper + "_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func applySeed(store *directory.Store, path string, demo bool) error {
	var fixtures *seed.Fixtures
	var err error
	switch {
	case path != "":
		fixtures, err = seed.ParseFile(path)
	case demo:
		fixtures, err = seed.Demo()
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}
	applied, err := seed.ApplyIfEmpty(store, fixtures)
	if err != nil {
		return err
	}
	if !applied {
		log.Printf("database already has listings, skipping seed\n")
	}
	return nil
}
