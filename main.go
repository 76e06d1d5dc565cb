// Publisher
// =========
// HTTP API for articles. Anyone may read and list articles, only the
// account that created an article may change or delete it.
//
// Passing the -routes flag prints the generated route docs:
// `go run . -routes`
//
// Boot the server:
// ----------------
// $ go run . -store memory
//
// Client requests:
// ----------------
// $ curl http://localhost:3333/ping
// pong
//
//	$ curl -i -u user1:password -H 'Content-Type: application/json' \
//	    -d '{"header":"h1","shortDescription":"sd","text":"t","publishDate":"2018-01-02T10:15:30Z","authors":["a1"],"keywords":["k1"]}' \
//	    http://localhost:3333/api/article
//
// HTTP/1.1 201 Created
// Location: /api/article/6a1f...
//
// $ curl http://localhost:3333/api/article/6a1f...
// {"id":"6a1f...","header":"h1",...,"owner":"user1"}
//
// $ curl 'http://localhost:3333/api/article?author=a1'
// [{"id":"6a1f...","header":"h1",...}]
//
// $ curl -H 'Accept: text/event-stream' 'http://localhost:3333/api/article?keyword=k1'
// data:{"id":"6a1f...","header":"h1",...}
//
// $ curl -i -u user2:password -X DELETE http://localhost:3333/api/article/6a1f...
// HTTP/1.1 403 Forbidden
//
// $ curl http://localhost:9999/metrics
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/SergeyParamoshkin/publisher/internal/article"
	"github.com/SergeyParamoshkin/publisher/internal/config"
	"github.com/SergeyParamoshkin/publisher/internal/diag"
	"github.com/SergeyParamoshkin/publisher/internal/identity"
	"github.com/SergeyParamoshkin/publisher/internal/storage/memstore"
	"github.com/SergeyParamoshkin/publisher/internal/storage/mongostore"
	"github.com/SergeyParamoshkin/publisher/internal/storage/pgstore"
	"github.com/SergeyParamoshkin/publisher/internal/validation"
)

const (
	ServiceName = config.ServiceName
	Realm       = "publisher"

	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	idleTimeout       = 120 * time.Second
)

type CtxKey int8

const (
	CtxKeyLogger CtxKey = iota
)

type App struct {
	sugarLogger *zap.SugaredLogger
	config      *config.Config
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync() // flushes buffer, if any

	a := &App{
		sugarLogger: logger.Sugar(),
		config:      cfg,
	}

	if err := a.run(); err != nil {
		a.sugarLogger.Fatalw("publisher stopped", "error", err)
	}
}

func (a *App) run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := a.config.Location()
	if err != nil {
		return err
	}

	accounts, err := identity.NewAccounts(a.config.Accounts, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	metrics, err := diag.NewMetrics(ServiceName)
	if err != nil {
		return err
	}

	// Passing -routes to the program will generate docs for the router
	// below without touching any store.
	if a.config.Routes {
		r := a.Router(memstore.New(), accounts, loc, metrics)
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/publisher",
			Intro:       "Publisher article API generated docs.",
		}))

		return nil
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			a.sugarLogger.Errorw("close store", "error", err)
		}
	}()

	api := newServer(a.config.Addr, a.Router(store, accounts, loc, metrics))
	diagSrv := newServer(a.config.DiagAddr, metrics.Router())

	errs := make(chan error, 2)
	for _, srv := range []*http.Server{api, diagSrv} {
		srv := srv
		go func() {
			a.sugarLogger.Infow("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		a.sugarLogger.Infow("shutting down")
	case err = <-errs:
		a.sugarLogger.Errorw(err.Error())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, srv := range []*http.Server{api, diagSrv} {
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			a.sugarLogger.Errorw("shutdown", "addr", srv.Addr, "error", serr)
		}
	}

	return err
}

// newServer bounds how long a client may take to send a request. There is
// no write timeout: listings stream for as long as the store yields.
func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// Router assembles the API: the article resource under /api/article
// behind Basic authentication, plus /ping.
func (a *App) Router(store article.Store, accounts *identity.Accounts, loc *time.Location, metrics *diag.Metrics) chi.Router {
	h := article.NewHandler(store, validation.New(),
		article.WithLogger(a.sugarLogger),
		article.WithLocation(loc),
		article.WithBasePath(article.DefaultBasePath),
	)

	var challenge func(*http.Request) bool
	if a.config.ChallengeWrites {
		challenge = identity.WriteMethods
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.Logger)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		logger := r.Context().Value(CtxKeyLogger).(*zap.SugaredLogger)
		logger.Debugw("ping")
		_, err := w.Write([]byte("pong"))
		if err != nil {
			logger.Errorw(err.Error())
		}
	})

	r.Route(article.DefaultBasePath, func(r chi.Router) {
		r.Use(identity.BasicAuth(Realm, accounts, challenge))
		r.Mount("/", h.Router())
	})

	return r
}

// openStore connects the configured article store. The returned func
// releases it.
func (a *App) openStore(ctx context.Context) (article.Store, func(context.Context) error, error) {
	switch a.config.Store {
	case config.StoreMongo:
		s, err := mongostore.Connect(ctx, a.config.MongoURI, a.config.MongoDatabase, mongostore.WithLogger(a.sugarLogger))
		if err != nil {
			return nil, nil, err
		}

		return s, s.Close, nil
	case config.StorePostgres:
		s, err := pgstore.Open(ctx, a.config.PostgresDSN, pgstore.WithLogger(a.sugarLogger))
		if err != nil {
			return nil, nil, err
		}

		return s, s.Close, nil
	default:
		return memstore.New(memstore.WithLogger(a.sugarLogger)), func(context.Context) error { return nil }, nil
	}
}

func (a *App) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := a.sugarLogger.With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), CtxKeyLogger, logger)))
	})
}
