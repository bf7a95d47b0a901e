package router

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/senyabanana/sealed-tender/internal/commitment"
	"github.com/senyabanana/sealed-tender/internal/events"
	"github.com/senyabanana/sealed-tender/internal/handlers"
	"github.com/senyabanana/sealed-tender/internal/models"
	"github.com/senyabanana/sealed-tender/internal/repository"
	"github.com/senyabanana/sealed-tender/internal/services"

	"github.com/holiman/uint256"
)

const (
	owner  = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bidder = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

type api struct {
	t      *testing.T
	now    time.Time
	server *httptest.Server
}

func newAPI(t *testing.T) *api {
	t.Helper()
	a := &api{t: t, now: time.Unix(1_700_000_000, 0)}
	clock := func() time.Time { return a.now }

	store := repository.NewMemoryStore()
	logger := log.New(io.Discard, "", 0)
	tenders := services.NewTenderService(store, store, &events.Recorder{}, logger)
	tenders.Now = clock
	bids := services.NewBidService(store, store, &events.Recorder{}, logger)
	bids.Now = clock
	ledger := services.NewLedger(tenders, bids)

	routes := InitRoutes(
		handlers.NewTenderHandler(ledger, logger, time.Second),
		handlers.NewBidHandler(ledger, logger, time.Second),
		handlers.NewCompanyHandler(services.NewCompanyService(store), logger, time.Second),
	)
	a.server = httptest.NewServer(routes)
	t.Cleanup(a.server.Close)
	return a
}

func (a *api) do(method, path, caller, body string) (int, []byte) {
	a.t.Helper()
	req, err := http.NewRequest(method, a.server.URL+path, strings.NewReader(body))
	if err != nil {
		a.t.Fatalf("new request: %v", err)
	}
	if caller != "" {
		req.Header.Set("X-Caller-Address", caller)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.server.Client().Do(req)
	if err != nil {
		a.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		a.t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func (a *api) expect(method, path, caller, body string, status int) []byte {
	a.t.Helper()
	code, data := a.do(method, path, caller, body)
	if code != status {
		a.t.Fatalf("%s %s: status %d, want %d; body %s", method, path, code, status, data)
	}
	return data
}

func (a *api) expectKind(method, path, caller, body string, status int, kind models.ErrorKind) {
	a.t.Helper()
	data := a.expect(method, path, caller, body, status)
	var resp models.ErrorResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		a.t.Fatalf("decode error body %s: %v", data, err)
	}
	if resp.Kind != kind.String() || resp.Message == "" {
		a.t.Fatalf("%s %s: error body %s, want kind %s", method, path, data, kind)
	}
}

const tenderBody = `{"title":"Office fit-out","description":"Two floors","category":0,
	"biddingDurationSec":3600,"revealDurationSec":3600,"minBid":"10"}`

func TestPing(t *testing.T) {
	a := newAPI(t)
	if body := a.expect(http.MethodGet, "/api/ping", "", "", http.StatusOK); string(body) != "ok" {
		t.Fatalf("body = %q", body)
	}
}

func TestSealedBidOverHTTP(t *testing.T) {
	a := newAPI(t)

	var created struct {
		Tender models.Tender `json:"tender"`
		Tx     struct {
			TxID string `json:"txId"`
		} `json:"tx"`
	}
	data := a.expect(http.MethodPost, "/api/tenders/new", owner, tenderBody, http.StatusOK)
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	if created.Tender.ID != 1 || created.Tx.TxID == "" || created.Tender.MinBid.Uint64() != 10 {
		t.Fatalf("created = %s", data)
	}

	secret, err := commitment.ParseSecretKey("0x00112233445566778899aabbccddeeff")
	if err != nil {
		t.Fatal(err)
	}
	hash, _ := commitment.Commit(uint256.NewInt(100), secret)
	commitBody := `{"commitment":"` + hash.Hex() + `"}`

	a.expect(http.MethodPost, "/api/bids/1/commit", bidder, commitBody, http.StatusOK)
	a.expectKind(http.MethodPost, "/api/bids/1/commit", bidder, commitBody, http.StatusConflict, models.KindDuplicateCommitment)
	a.expectKind(http.MethodPost, "/api/bids/1/reveal", bidder, `{"amount":"100","secret":"`+secret.String()+`"}`, http.StatusConflict, models.KindPhaseViolation)

	a.now = a.now.Add(time.Hour)
	a.expectKind(http.MethodPost, "/api/bids/1/reveal", bidder, `{"amount":"99","secret":"`+secret.String()+`"}`, http.StatusUnprocessableEntity, models.KindHashMismatch)

	var status models.CommitmentStatus
	_ = json.Unmarshal(a.expect(http.MethodGet, "/api/bids/1/status?bidder="+bidder, "", "", http.StatusOK), &status)
	if status.Revealed {
		t.Fatal("revealed after mismatch")
	}

	a.expect(http.MethodPost, "/api/bids/1/reveal", bidder, `{"amount":"100","secret":"`+secret.String()+`"}`, http.StatusOK)
	a.expectKind(http.MethodPost, "/api/bids/1/reveal", bidder, `{"amount":"100","secret":"`+secret.String()+`"}`, http.StatusConflict, models.KindAlreadyRevealed)

	a.now = a.now.Add(time.Hour)
	var phase struct {
		Phase        string   `json:"phase"`
		LegalActions []string `json:"legalActions"`
	}
	_ = json.Unmarshal(a.expect(http.MethodGet, "/api/tenders/1/phase", bidder, "", http.StatusOK), &phase)
	if phase.Phase != models.PhaseAwaitingClose.String() || len(phase.LegalActions) != 1 || phase.LegalActions[0] != "finalize" {
		t.Fatalf("phase = %+v", phase)
	}

	a.expect(http.MethodPost, "/api/tenders/1/finalize", bidder, "", http.StatusOK)

	var winner struct {
		Winner *models.Winner `json:"winner"`
	}
	_ = json.Unmarshal(a.expect(http.MethodGet, "/api/tenders/1/winner", "", "", http.StatusOK), &winner)
	if winner.Winner == nil || string(winner.Winner.Bidder) != bidder || winner.Winner.Amount.Uint64() != 100 {
		t.Fatalf("winner = %+v", winner.Winner)
	}

	a.expectKind(http.MethodPost, "/api/tenders/1/rate", bidder, `{"rating":5}`, http.StatusForbidden, models.KindNotAuthorized)
	a.expectKind(http.MethodPost, "/api/tenders/1/rate", owner, `{"rating":9}`, http.StatusBadRequest, models.KindInvalidInput)
	a.expect(http.MethodPost, "/api/tenders/1/rate", owner, `{"rating":5}`, http.StatusOK)

	var profile models.CompanyProfile
	_ = json.Unmarshal(a.expect(http.MethodGet, "/api/companies/"+bidder, "", "", http.StatusOK), &profile)
	if profile.ReputationTotal != 5 || profile.RatingCount != 1 {
		t.Fatalf("profile = %+v", profile)
	}
}

func TestTenderListing(t *testing.T) {
	a := newAPI(t)
	a.expect(http.MethodPost, "/api/tenders/new", owner, tenderBody, http.StatusOK)
	a.expect(http.MethodPost, "/api/tenders/new", bidder, strings.Replace(tenderBody, `"category":0`, `"category":1`, 1), http.StatusOK)

	var tenders []models.Tender
	_ = json.Unmarshal(a.expect(http.MethodGet, "/api/tenders?category=IT", "", "", http.StatusOK), &tenders)
	if len(tenders) != 1 || tenders[0].ID != 2 {
		t.Fatalf("IT tenders = %+v", tenders)
	}

	_ = json.Unmarshal(a.expect(http.MethodGet, "/api/tenders?creator="+owner+"&limit=10", "", "", http.StatusOK), &tenders)
	if len(tenders) != 1 || tenders[0].ID != 1 {
		t.Fatalf("owner tenders = %+v", tenders)
	}

	a.expectKind(http.MethodGet, "/api/tenders?limit=500", "", "", http.StatusBadRequest, models.KindInvalidInput)
	a.expectKind(http.MethodGet, "/api/tenders/77", "", "", http.StatusNotFound, models.KindNotFound)
	a.expectKind(http.MethodGet, "/api/tenders/abc", "", "", http.StatusBadRequest, models.KindInvalidInput)
}

func TestRequestValidation(t *testing.T) {
	a := newAPI(t)

	a.expectKind(http.MethodPost, "/api/tenders/new", "", tenderBody, http.StatusBadRequest, models.KindInvalidInput)
	a.expectKind(http.MethodPost, "/api/tenders/new", "0x12", tenderBody, http.StatusBadRequest, models.KindInvalidInput)
	a.expectKind(http.MethodPost, "/api/tenders/new", owner, `{"title":"x","unknown":1}`, http.StatusBadRequest, models.KindInvalidInput)
	a.expectKind(http.MethodPost, "/api/tenders/new", owner, strings.Replace(tenderBody, `"revealDurationSec":3600`, `"revealDurationSec":0`, 1), http.StatusBadRequest, models.KindInvalidInput)

	a.expect(http.MethodPost, "/api/tenders/new", owner, tenderBody, http.StatusOK)
	a.expectKind(http.MethodPost, "/api/bids/1/commit", bidder, `{"commitment":"0x1234"}`, http.StatusBadRequest, models.KindInvalidInput)
	a.expectKind(http.MethodPost, "/api/tenders/1/cancel", bidder, "", http.StatusForbidden, models.KindNotAuthorized)
	a.expect(http.MethodPost, "/api/tenders/1/cancel", owner, "", http.StatusOK)
	a.expectKind(http.MethodPost, "/api/tenders/1/finalize", owner, "", http.StatusConflict, models.KindPhaseViolation)
}

func TestCompanyRegistration(t *testing.T) {
	a := newAPI(t)
	body := `{"name":"Builders","registrationId":"REG-1","contactEmail":"office@builders.example"}`

	a.expectKind(http.MethodPost, "/api/companies/register", bidder, `{"name":"Builders"}`, http.StatusBadRequest, models.KindInvalidInput)
	a.expect(http.MethodPost, "/api/companies/register", bidder, body, http.StatusOK)

	var profile models.CompanyProfile
	_ = json.Unmarshal(a.expect(http.MethodGet, "/api/companies/"+strings.ToUpper(bidder[2:]), "", "", http.StatusBadRequest), &profile)
	_ = json.Unmarshal(a.expect(http.MethodGet, "/api/companies/"+bidder, "", "", http.StatusOK), &profile)
	if !profile.Registered || profile.Name != "Builders" {
		t.Fatalf("profile = %+v", profile)
	}
}
