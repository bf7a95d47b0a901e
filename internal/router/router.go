package router

import (
	"net/http"

	"github.com/senyabanana/sealed-tender/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func InitRoutes(tenderHandler *handlers.TenderHandler, bidHandler *handlers.BidHandler, companyHandler *handlers.CompanyHandler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", handlers.PingHandler)

		r.Route("/tenders", func(r chi.Router) {
			r.Get("/", tenderHandler.GetTenders)
			r.Post("/new", tenderHandler.CreateTender)
			r.Get("/{tenderId}", tenderHandler.GetTender)
			r.Get("/{tenderId}/phase", tenderHandler.GetTenderPhase)
			r.Get("/{tenderId}/winner", tenderHandler.GetWinner)
			r.Post("/{tenderId}/finalize", tenderHandler.FinalizeTender)
			r.Post("/{tenderId}/cancel", tenderHandler.CancelTender)
			r.Post("/{tenderId}/rate", tenderHandler.RateWinner)
		})

		r.Route("/bids", func(r chi.Router) {
			r.Post("/{tenderId}/commit", bidHandler.CommitBid)
			r.Post("/{tenderId}/reveal", bidHandler.RevealBid)
			r.Get("/{tenderId}/status", bidHandler.GetBidStatus)
		})

		r.Route("/companies", func(r chi.Router) {
			r.Post("/register", companyHandler.RegisterCompany)
			r.Get("/{address}", companyHandler.GetCompany)
		})
	})

	return router
}
