package http

import (
	"net/http"

	"go-hospital-internment/internal/delivery/http/handler"
	"go-hospital-internment/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router           *mux.Router
	authHandler      *handler.AuthHandler
	wardHandler      *handler.WardHandler
	patientHandler   *handler.PatientHandler
	diaryHandler     *handler.DiaryHandler
	referralHandler  *handler.ReferralHandler
	dischargeHandler *handler.DischargeHandler
	messageHandler   *handler.MessageHandler
	doctorHandler    *handler.DoctorHandler
	hospitalHandler  *handler.HospitalHandler
	auditLogHandler  *handler.AuditLogHandler
	authMiddleware   *middleware.AuthMiddleware
	corsMiddleware   *middleware.CORSMiddleware
	gatherer         prometheus.Gatherer
}

type Handlers struct {
	Auth      *handler.AuthHandler
	Ward      *handler.WardHandler
	Patient   *handler.PatientHandler
	Diary     *handler.DiaryHandler
	Referral  *handler.ReferralHandler
	Discharge *handler.DischargeHandler
	Message   *handler.MessageHandler
	Doctor    *handler.DoctorHandler
	Hospital  *handler.HospitalHandler
	AuditLog  *handler.AuditLogHandler
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	gatherer prometheus.Gatherer,
) *Router {
	return &Router{
		router:           mux.NewRouter(),
		authHandler:      handlers.Auth,
		wardHandler:      handlers.Ward,
		patientHandler:   handlers.Patient,
		diaryHandler:     handlers.Diary,
		referralHandler:  handlers.Referral,
		dischargeHandler: handlers.Discharge,
		messageHandler:   handlers.Message,
		doctorHandler:    handlers.Doctor,
		hospitalHandler:  handlers.Hospital,
		auditLogHandler:  handlers.AuditLog,
		authMiddleware:   authMiddleware,
		corsMiddleware:   corsMiddleware,
		gatherer:         gatherer,
	}
}

func (r *Router) Setup() *mux.Router {
	// Metrics
	if r.gatherer != nil {
		r.router.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Family access (public)
	api.HandleFunc("/patients/{id}/access-code/verify", r.patientHandler.VerifyAccessCode).Methods(http.MethodPost)

	// Everything below requires a bearer token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	admin := func(h http.HandlerFunc) http.Handler { return middleware.RequireAdmin(h) }
	doctor := func(h http.HandlerFunc) http.Handler { return middleware.RequireDoctor(h) }
	clinician := func(h http.HandlerFunc) http.Handler { return middleware.RequireAdminOrDoctor(h) }

	// Auth
	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Wards
	protected.HandleFunc("/wards", r.wardHandler.GetAllWards).Methods(http.MethodGet)
	protected.Handle("/wards", admin(r.wardHandler.CreateWard)).Methods(http.MethodPost)
	protected.HandleFunc("/wards/available", r.wardHandler.GetAvailableWards).Methods(http.MethodGet)
	protected.HandleFunc("/wards/by-name/{name}/beds/available", r.wardHandler.GetAvailableBeds).Methods(http.MethodGet)
	protected.HandleFunc("/wards/by-name/{name}/beds/{bed}/occupy", r.wardHandler.OccupyBed).Methods(http.MethodPost)
	protected.HandleFunc("/wards/by-name/{name}/beds/{bed}/free", r.wardHandler.FreeBed).Methods(http.MethodPost)
	protected.HandleFunc("/wards/{id}", r.wardHandler.GetWard).Methods(http.MethodGet)
	protected.Handle("/wards/{id}", admin(r.wardHandler.DeleteWard)).Methods(http.MethodDelete)
	protected.Handle("/wards/{id}/beds", admin(r.wardHandler.ResizeWard)).Methods(http.MethodPut)
	protected.Handle("/wards/{id}/status", admin(r.wardHandler.UpdateWardStatus)).Methods(http.MethodPut)

	// Patients
	protected.HandleFunc("/patients", r.patientHandler.GetPatients).Methods(http.MethodGet)
	protected.HandleFunc("/patients", r.patientHandler.AdmitPatient).Methods(http.MethodPost)
	protected.HandleFunc("/patients/dashboard", r.patientHandler.GetDashboard).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPatch)

	// Clinical diary
	protected.HandleFunc("/diaries", r.diaryHandler.GetAllDiaries).Methods(http.MethodGet)
	protected.HandleFunc("/diaries", r.diaryHandler.CreateDiaryEntry).Methods(http.MethodPost)
	protected.HandleFunc("/patients/{id}/diaries", r.diaryHandler.GetPatientDiaries).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}/diaries", r.diaryHandler.CreateDiaryEntry).Methods(http.MethodPost)
	protected.HandleFunc("/patients/{id}/diaries/last", r.diaryHandler.GetLastDiary).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}/trend", r.diaryHandler.GetTrend).Methods(http.MethodGet)

	// Discharge
	protected.HandleFunc("/patients/{id}/discharge-candidate", r.dischargeHandler.GetCandidate).Methods(http.MethodGet)
	protected.Handle("/patients/{id}/discharge-eligibility", clinician(r.dischargeHandler.EvaluateEligibility)).Methods(http.MethodPost)
	protected.HandleFunc("/discharges", r.dischargeHandler.GetDischarges).Methods(http.MethodGet)
	protected.Handle("/discharges", doctor(r.dischargeHandler.ProcessDischarge)).Methods(http.MethodPost)

	// Referrals
	protected.HandleFunc("/referrals", r.referralHandler.GetReferrals).Methods(http.MethodGet)
	protected.HandleFunc("/referrals", r.referralHandler.CreateReferral).Methods(http.MethodPost)
	protected.HandleFunc("/referrals/{id}", r.referralHandler.GetReferral).Methods(http.MethodGet)
	protected.Handle("/referrals/{id}/approve", clinician(r.referralHandler.ApproveReferral)).Methods(http.MethodPost)
	protected.Handle("/referrals/{id}/reject", clinician(r.referralHandler.RejectReferral)).Methods(http.MethodPost)

	// Messages
	protected.HandleFunc("/messages", r.messageHandler.GetMessages).Methods(http.MethodGet)
	protected.HandleFunc("/messages", r.messageHandler.SendMessage).Methods(http.MethodPost)
	protected.Handle("/messages/{id}/answer", doctor(r.messageHandler.AnswerMessage)).Methods(http.MethodPost)

	// Doctors
	protected.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	protected.Handle("/doctors", admin(r.doctorHandler.CreateDoctor)).Methods(http.MethodPost)

	// Hospital profile
	protected.HandleFunc("/hospital", r.hospitalHandler.GetProfile).Methods(http.MethodGet)
	protected.Handle("/hospital", admin(r.hospitalHandler.UpdateProfile)).Methods(http.MethodPut)

	// Audit trail (admin)
	protected.Handle("/audit-logs", admin(r.auditLogHandler.GetAllAuditLogs)).Methods(http.MethodGet)
	protected.Handle("/audit-logs/{id}", admin(r.auditLogHandler.GetAuditLog)).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
