package server

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/doracomply/doracomply/pkg/config"
	"github.com/doracomply/doracomply/pkg/encryption"
	"github.com/doracomply/doracomply/pkg/extraction"
	"github.com/doracomply/doracomply/pkg/scoring"
	"github.com/doracomply/doracomply/pkg/server/middleware"
	"github.com/doracomply/doracomply/pkg/server/store"
	gormstore "github.com/doracomply/doracomply/pkg/server/store/gorm"
)

type Server struct {
	Config   *config.Config
	Cipher   encryption.SymmetricCipher
	Router   *mux.Router
	DB       *gorm.DB
	Runner   *extraction.Runner
	Registry *scoring.Registry
	Session  *middleware.SessionAuthenticator

	UsersStore     store.UsersStore
	DocumentsStore store.DocumentsStore
	AnalysesStore  store.AnalysesStore
	JobsStore      store.JobsStore
	VendorsStore   store.VendorsStore
	TasksStore     store.TasksStore
	IncidentsStore store.IncidentsStore
	WidgetsStore   store.WidgetsStore
	DashboardStore store.DashboardStore
	HealthStore    store.HealthStore

	srv *http.Server
}

func NewServer(
	cfg *config.Config,
	cipher encryption.SymmetricCipher,
	signingKey []byte,
	db *gorm.DB,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	registry := scoring.DefaultRegistry

	return &Server{
		Config:   cfg,
		Cipher:   cipher,
		Router:   router,
		DB:       db,
		Runner:   extraction.NewRunner(db, nil, registry, nil),
		Registry: registry,
		Session:  middleware.NewSessionAuthenticator(signingKey, cfg.SessionTTL()),

		UsersStore:     gormstore.NewUsersStore(db),
		DocumentsStore: gormstore.NewDocumentsStore(db),
		AnalysesStore:  gormstore.NewAnalysesStore(db),
		JobsStore:      gormstore.NewJobsStore(db),
		VendorsStore:   gormstore.NewVendorsStore(db),
		TasksStore:     gormstore.NewTasksStore(db),
		IncidentsStore: gormstore.NewIncidentsStore(db),
		WidgetsStore:   gormstore.NewWidgetsStore(db),
		DashboardStore: gormstore.NewDashboardStore(db),
		HealthStore:    gormstore.NewHealthStore(db),

		srv: srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}

// StartWithListener serves on an existing listener. Used by tests that need
// to pick the port themselves.
func (s Server) StartWithListener(l net.Listener) error {
	return s.srv.Serve(l)
}
