package handlers

import (
	"database/sql"

	"tourbackend/internal/config"
	"tourbackend/internal/events"
	"tourbackend/internal/gateway"
	"tourbackend/internal/http/middleware"
	"tourbackend/internal/repositories"
	"tourbackend/internal/services"

	"github.com/gin-gonic/gin"
)

// Handlers carries the long-lived dependencies. Services are assembled per
// request so they can carry the request id into log lines.
type Handlers struct {
	DB        *sql.DB
	Env       config.Env
	Gateway   *gateway.Client
	Publisher *events.Publisher
}

func New(db *sql.DB, env config.Env, gw *gateway.Client, pub *events.Publisher) *Handlers {
	return &Handlers{DB: db, Env: env, Gateway: gw, Publisher: pub}
}

func (h *Handlers) bookingSvc(c *gin.Context) services.BookingService {
	return services.BookingService{
		BookingRepo: repositories.BookingRepository{DB: h.DB},
		TourRepo:    repositories.TourRepository{DB: h.DB},
		RequestID:   middleware.GetRequestID(c),
	}
}

func (h *Handlers) paymentSvc(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		DB:          h.DB,
		PaymentRepo: repositories.PaymentRepository{DB: h.DB},
		BookingRepo: repositories.BookingRepository{DB: h.DB},
		Gateway:     h.Gateway,
		Publisher:   h.Publisher,
		RequestID:   middleware.GetRequestID(c),
	}
}

func (h *Handlers) staffSvc(c *gin.Context) services.StaffService {
	return services.StaffService{
		DB:           h.DB,
		BookingRepo:  repositories.BookingRepository{DB: h.DB},
		TourRepo:     repositories.TourRepository{DB: h.DB},
		UserRepo:     repositories.UserRepository{DB: h.DB},
		EmployeeRepo: repositories.EmployeeRepository{DB: h.DB},
		StaffRepo:    repositories.StaffRepository{DB: h.DB},
		RequestID:    middleware.GetRequestID(c),
	}
}

func (h *Handlers) locationSvc(c *gin.Context) services.LocationService {
	return services.LocationService{
		LocationRepo: repositories.LocationRepository{DB: h.DB},
		BookingRepo:  repositories.BookingRepository{DB: h.DB},
		RequestID:    middleware.GetRequestID(c),
	}
}

func (h *Handlers) docsSvc(c *gin.Context) services.DocsService {
	return services.DocsService{
		BookingRepo: repositories.BookingRepository{DB: h.DB},
		PaymentRepo: repositories.PaymentRepository{DB: h.DB},
		TourRepo:    repositories.TourRepository{DB: h.DB},
		RequestID:   middleware.GetRequestID(c),
	}
}
