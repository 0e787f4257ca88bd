package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jbweber/homelab/simpledms/internal/datastore"
	"github.com/jbweber/homelab/simpledms/internal/domain"
	"github.com/jbweber/homelab/simpledms/internal/repository"
	"github.com/jbweber/homelab/simpledms/internal/service"
)

// API holds repository dependencies for clean data access
type API struct {
	logger       *slog.Logger
	customerRepo repository.CustomerRepository
	deptRepo     repository.DeptRepository
	faqRepo      repository.FaqRepository
}

// NewAPI creates a new API instance with repositories initialized from the datastore
func NewAPI(ds *datastore.Datastore, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		logger:       logger,
		customerRepo: repository.NewCustomerRepository(ds),
		deptRepo:     repository.NewDeptRepository(ds),
		faqRepo:      repository.NewFaqRepository(ds),
	}
}

// RegisterRoutes registers all API endpoints to the given chi router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Get("/", a.healthHandler)

	customers := NewResource[domain.Customer]("cid", "email", service.NewCustomerService(a.customerRepo), a.logger)
	r.Route("/api/customer", customers.Routes)

	depts := NewResource[domain.Dept]("dno", "dname", service.NewDeptService(a.deptRepo), a.logger)
	r.Route("/api/dept", depts.Routes)

	faqs := NewResource[domain.Faq]("no", "title", service.NewFaqService(a.faqRepo), a.logger)
	r.Route("/api/faq", faqs.Routes)
}

// Close releases the prepared statements of every repository
func (a *API) Close() error {
	return errors.Join(a.customerRepo.Close(), a.deptRepo.Close(), a.faqRepo.Close())
}

func (a *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := fmt.Fprintln(w, "SimpleDMS web service is running!"); err != nil {
		a.logger.Debug("failed to write response", slog.Any("error", err))
	}
}
