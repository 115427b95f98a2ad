package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-hospital-internment/config"
	"go-hospital-internment/internal/delivery/http/handler"
	"go-hospital-internment/internal/delivery/http/middleware"
	"go-hospital-internment/internal/repository"
	"go-hospital-internment/internal/service"
	"go-hospital-internment/internal/usecase"
	"go-hospital-internment/pkg/jwt"
	"go-hospital-internment/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	handler http.Handler
	jwt     *jwt.JWTService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := repository.NewMemoryRecordStore()
	denylist := service.NewMemoryTokenDenylist()
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "router-test", AccessExpiry: time.Hour})
	v := validator.NewValidator()
	clinical := config.ClinicalConfig{FeverThreshold: 38, LowSaturationThreshold: 90, TrendWindowDays: 3}

	registry := prometheus.NewRegistry()
	metrics := service.NewMetrics(registry)
	audit := service.NewAuditService(store, log)
	creds := service.NewCredentialService(nil, log, bcrypt.MinCost)

	wards := usecase.NewWardUsecase(log, store, audit, metrics, usecase.DefaultWards())
	patients := usecase.NewPatientUsecase(log, store, wards, creds, audit, metrics)
	diaries := usecase.NewDiaryUsecase(log, store, clinical)
	validation := usecase.NewValidationUsecase(log, store, patients, audit, metrics)
	discharges := usecase.NewDischargeUsecase(log, store, patients, diaries, clinical)
	messages := usecase.NewMessageUsecase(log, store, patients)
	doctors := usecase.NewDoctorUsecase(log, store, usecase.DefaultDoctors())

	ctx := context.Background()
	for _, u := range []interface {
		Start(ctx context.Context) error
		Stop()
	}{wards, patients, diaries, validation, discharges, messages, doctors} {
		require.NoError(t, u.Start(ctx))
		t.Cleanup(u.Stop)
	}

	router := NewRouter(Handlers{
		Auth:      handler.NewAuthHandler(log, denylist),
		Ward:      handler.NewWardHandler(wards, v),
		Patient:   handler.NewPatientHandler(patients, v),
		Diary:     handler.NewDiaryHandler(diaries, patients, v),
		Referral:  handler.NewReferralHandler(validation, v),
		Discharge: handler.NewDischargeHandler(discharges, v),
		Message:   handler.NewMessageHandler(messages, v),
		Doctor:    handler.NewDoctorHandler(doctors, v),
		Hospital:  handler.NewHospitalHandler(usecase.NewHospitalUsecase(log, store), v),
		AuditLog:  handler.NewAuditLogHandler(usecase.NewAuditLogUsecase(log, store)),
	}, middleware.NewAuthMiddleware(jwtService, denylist), middleware.NewCORSMiddleware(""), registry)

	return &testServer{handler: router.Setup(), jwt: jwtService}
}

func (s *testServer) token(t *testing.T, role jwt.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken("user-"+string(role), "Equipe "+string(role), role)
	require.NoError(t, err)
	return token
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var resp apiResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec.Code, resp
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func TestRouter_PublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hospital_ward_total_beds")

	code, _ = s.do(t, http.MethodGet, "/api/v1/wards", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/wards", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_WardAdministration(t *testing.T) {
	s := newTestServer(t)
	nurse := s.token(t, jwt.RoleNurse)
	admin := s.token(t, jwt.RoleAdmin)

	body := map[string]interface{}{"name": "Pediatria", "service": "Pediatria", "bed_count": 3}

	code, _ := s.do(t, http.MethodPost, "/api/v1/wards", nurse, body)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := s.do(t, http.MethodPost, "/api/v1/wards", admin, body)
	require.Equal(t, http.StatusCreated, code)
	var ward struct {
		ID        string `json:"id"`
		TotalBeds int    `json:"total_beds"`
	}
	decode(t, resp.Data, &ward)
	assert.Equal(t, 3, ward.TotalBeds)

	code, _ = s.do(t, http.MethodPost, "/api/v1/wards", admin, body)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/wards", admin, map[string]interface{}{"name": "X"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPut, "/api/v1/wards/"+ward.ID+"/status", admin, map[string]string{"status": "inativa"})
	assert.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodGet, "/api/v1/wards/available", nurse, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(resp.Data), "Pediatria")

	code, _ = s.do(t, http.MethodPost, "/api/v1/wards/by-name/Pediatria/beds/1/occupy", nurse, map[string]string{"patient_id": "p-1"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/wards/missing", nurse, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodDelete, "/api/v1/wards/"+ward.ID, admin, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_InternmentLifecycle(t *testing.T) {
	s := newTestServer(t)
	nurse := s.token(t, jwt.RoleNurse)
	doctor := s.token(t, jwt.RoleDoctor)

	code, resp := s.do(t, http.MethodPost, "/api/v1/patients", nurse, map[string]interface{}{
		"name":    "Maria Silva",
		"email":   "maria@example.com",
		"service": "Clínica Médica",
		"ward":    "Enfermaria A",
		"bed":     "1",
	})
	require.Equal(t, http.StatusCreated, code)

	var admission struct {
		Patient struct {
			ID       string `json:"id"`
			Location string `json:"location"`
			Status   string `json:"status"`
		} `json:"patient"`
		Credentials struct {
			Password   string `json:"password"`
			AccessCode string `json:"access_code"`
		} `json:"credentials"`
	}
	decode(t, resp.Data, &admission)
	patientID := admission.Patient.ID
	assert.Equal(t, "Enfermaria A - Leito 1", admission.Patient.Location)
	assert.Equal(t, "ativo", admission.Patient.Status)
	assert.Len(t, admission.Credentials.Password, 12)

	// the bed is taken now
	code, _ = s.do(t, http.MethodPost, "/api/v1/patients", nurse, map[string]interface{}{
		"name": "João", "email": "joao@example.com", "service": "Clínica Médica", "ward": "Enfermaria A", "bed": "1",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/patients/"+patientID, nurse, nil)
	assert.Equal(t, http.StatusOK, code)
	code, resp = s.do(t, http.MethodGet, "/api/v1/patients/"+patientID, nurse, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(resp.Data), "password")

	// family access
	code, _ = s.do(t, http.MethodPost, "/api/v1/patients/"+patientID+"/access-code/verify", "",
		map[string]string{"access_code": admission.Credentials.AccessCode})
	assert.Equal(t, http.StatusOK, code)

	wrong := "000000"
	if admission.Credentials.AccessCode == wrong {
		wrong = "111111"
	}
	code, _ = s.do(t, http.MethodPost, "/api/v1/patients/"+patientID+"/access-code/verify", "",
		map[string]string{"access_code": wrong})
	assert.Equal(t, http.StatusUnauthorized, code)

	// clinical diary
	code, _ = s.do(t, http.MethodPost, "/api/v1/patients/"+patientID+"/diaries", nurse, map[string]interface{}{
		"vitals": map[string]string{"temperature": "36,8", "spo2": "97%"},
	})
	assert.Equal(t, http.StatusCreated, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/patients/missing/diaries", nurse, map[string]interface{}{
		"vitals": map[string]string{"temperature": "36"},
	})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/patients/"+patientID+"/trend?days=abc", nurse, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = s.do(t, http.MethodGet, "/api/v1/patients/"+patientID+"/trend", nurse, nil)
	require.Equal(t, http.StatusOK, code)
	var trend struct {
		TotalEntries int `json:"total_entries"`
	}
	decode(t, resp.Data, &trend)
	assert.Equal(t, 1, trend.TotalEntries)

	code, _ = s.do(t, http.MethodPost, "/api/v1/patients/"+patientID+"/discharge-eligibility", nurse, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(t, http.MethodPost, "/api/v1/patients/"+patientID+"/discharge-eligibility", doctor, nil)
	assert.Equal(t, http.StatusOK, code)

	// discharge
	discharge := map[string]string{"patient_id": patientID, "discharge_note": "Alta melhorada"}
	code, _ = s.do(t, http.MethodPost, "/api/v1/discharges", nurse, discharge)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/discharges", doctor, discharge)
	assert.Equal(t, http.StatusCreated, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/discharges", doctor, discharge)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/discharges?patient_id="+patientID, nurse, nil)
	assert.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodGet, "/api/v1/wards/by-name/Enfermaria%20A/beds/available", nurse, nil)
	require.Equal(t, http.StatusOK, code)
	var beds struct {
		Beds []string `json:"beds"`
	}
	decode(t, resp.Data, &beds)
	assert.Contains(t, beds.Beds, "1")
}

func TestRouter_ReferralsAndMessages(t *testing.T) {
	s := newTestServer(t)
	nurse := s.token(t, jwt.RoleNurse)
	doctor := s.token(t, jwt.RoleDoctor)

	code, resp := s.do(t, http.MethodPost, "/api/v1/patients", nurse, map[string]interface{}{
		"name": "Ana", "email": "ana@example.com", "service": "Clínica Médica",
	})
	require.Equal(t, http.StatusCreated, code)
	var admission struct {
		Patient struct {
			ID string `json:"id"`
		} `json:"patient"`
	}
	decode(t, resp.Data, &admission)
	patientID := admission.Patient.ID

	code, resp = s.do(t, http.MethodPost, "/api/v1/referrals", nurse, map[string]string{
		"patient_id": patientID, "new_service": "Cardiologia",
	})
	require.Equal(t, http.StatusCreated, code)
	var referral struct {
		ID          string `json:"id"`
		RequestedBy string `json:"requested_by"`
	}
	decode(t, resp.Data, &referral)
	assert.Equal(t, "Equipe nurse", referral.RequestedBy)

	code, _ = s.do(t, http.MethodPost, "/api/v1/referrals/"+referral.ID+"/approve", nurse, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(t, http.MethodPost, "/api/v1/referrals/"+referral.ID+"/approve", doctor, nil)
	assert.Equal(t, http.StatusOK, code)
	code, resp = s.do(t, http.MethodPost, "/api/v1/referrals/"+referral.ID+"/approve", doctor, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Referral was already resolved", resp.Message)

	code, resp = s.do(t, http.MethodGet, "/api/v1/patients/"+patientID, nurse, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"service":"Cardiologia"`)

	code, resp = s.do(t, http.MethodPost, "/api/v1/messages", nurse, map[string]string{
		"patient_id": patientID, "message": "Posso receber visitas?",
	})
	require.Equal(t, http.StatusCreated, code)
	var message struct {
		ID string `json:"id"`
	}
	decode(t, resp.Data, &message)

	code, _ = s.do(t, http.MethodPost, "/api/v1/messages/"+message.ID+"/answer", nurse, map[string]string{"response": "Sim"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(t, http.MethodPost, "/api/v1/messages/"+message.ID+"/answer", doctor, map[string]string{"response": "Sim"})
	assert.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodGet, "/api/v1/messages", nurse, nil)
	require.Equal(t, http.StatusOK, code)
	var pending struct {
		Total int `json:"total"`
	}
	decode(t, resp.Data, &pending)
	assert.Zero(t, pending.Total)
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	nurse := s.token(t, jwt.RoleNurse)

	code, resp := s.do(t, http.MethodGet, "/api/v1/auth/me", nurse, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"role":"nurse"`)

	code, _ = s.do(t, http.MethodPost, "/api/v1/auth/logout", nurse, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/auth/me", nurse, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
