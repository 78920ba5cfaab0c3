package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ariefcatur/go-hotel-reservations/internal/billing"
	"github.com/ariefcatur/go-hotel-reservations/internal/booking"
	"github.com/ariefcatur/go-hotel-reservations/internal/rooms"
	"github.com/shopspring/decimal"
)

type stubPrices struct {
	rates   map[int64]string
	err     error
	entered chan struct{} // signalled when a lookup starts, if set
	gate    chan struct{} // lookups wait for it to close, if set
}

func (p *stubPrices) RoomPrice(_ context.Context, id int64) (rooms.PriceView, error) {
	if p.entered != nil {
		p.entered <- struct{}{}
	}
	if p.gate != nil {
		<-p.gate
	}
	if p.err != nil {
		return rooms.PriceView{}, p.err
	}
	r, ok := p.rates[id]
	if !ok {
		return rooms.PriceView{}, rooms.ErrRoomNotFound
	}
	return rooms.PriceView{RoomID: id, NightlyPrice: decimal.NewNullDecimal(decimal.RequireFromString(r))}, nil
}

// memIdem stores 0 for a reserved key whose create has not finished.
type memIdem struct {
	mu   sync.Mutex
	keys map[string]int64
}

func (m *memIdem) Reserve(_ context.Context, key string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.keys[key]; ok {
		return id, false, nil
	}
	m.keys[key] = 0
	return 0, true, nil
}

func (m *memIdem) Remember(_ context.Context, key string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = id
	return nil
}

func (m *memIdem) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

type testAPI struct {
	srv    *httptest.Server
	prices *stubPrices
	store  *booking.MemoryStore
	idem   *memIdem
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	prices := &stubPrices{rates: map[int64]string{1: "100.00", 2: "150.00"}}
	store := booking.NewMemoryStore()
	svc := &booking.Service{Store: store, Prices: prices, Log: log}

	idem := &memIdem{keys: map[string]int64{}}

	r := NewRouter(log, nil)
	(&BookingsHandler{Service: svc, Idempotency: idem, Log: log}).Register(r)
	(&InvoicesHandler{Issuer: &billing.Issuer{Bookings: svc, Store: billing.NewMemoryStore(), Log: log}, Log: log}).Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testAPI{srv: srv, prices: prices, store: store, idem: idem}
}

func (a *testAPI) do(t *testing.T, method, path, body string, hdr map[string]string) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func TestCreateAndGetBooking(t *testing.T) {
	a := newTestAPI(t)

	code, body := a.do(t, http.MethodPost, "/api/bookings",
		`{"guestId":"g-1","roomId":1,"checkInDate":"2024-05-01","checkOutDate":"2024-05-04"}`, nil)
	if code != http.StatusCreated {
		t.Fatalf("create: %d %s", code, body)
	}
	var id int64
	if err := json.Unmarshal(body, &id); err != nil || id != 1 {
		t.Fatalf("create body = %s (%v)", body, err)
	}

	code, body = a.do(t, http.MethodGet, "/api/bookings/1", "", nil)
	if code != http.StatusOK {
		t.Fatalf("get: %d %s", code, body)
	}
	var got BookingResp
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != booking.StatusPending || got.CheckInDate != "2024-05-01" || got.CheckOutDate != "2024-05-04" {
		t.Errorf("unexpected booking %+v", got)
	}
	if !got.TotalPrice.Equal(decimal.RequireFromString("300")) {
		t.Errorf("total = %s, want 300", got.TotalPrice)
	}
}

func TestCreateBookingIdempotencyKey(t *testing.T) {
	a := newTestAPI(t)
	body := `{"guestId":"g-1","roomId":1,"checkInDate":"2024-05-01","checkOutDate":"2024-05-02"}`
	hdr := map[string]string{"Idempotency-Key": "abc"}

	code, first := a.do(t, http.MethodPost, "/api/bookings", body, hdr)
	if code != http.StatusCreated {
		t.Fatalf("first: %d %s", code, first)
	}
	code, second := a.do(t, http.MethodPost, "/api/bookings", body, hdr)
	if code != http.StatusOK {
		t.Fatalf("replay: %d %s", code, second)
	}
	if string(first) != string(second) {
		t.Errorf("replay id %s != %s", second, first)
	}
	all, _ := a.store.List(context.Background())
	if len(all) != 1 {
		t.Errorf("stored %d bookings, want 1", len(all))
	}
}

func TestCreateBookingConcurrentSameKey(t *testing.T) {
	a := newTestAPI(t)
	a.prices.entered = make(chan struct{}, 1)
	a.prices.gate = make(chan struct{})
	body := `{"guestId":"g-1","roomId":1,"checkInDate":"2024-05-01","checkOutDate":"2024-05-02"}`
	hdr := map[string]string{"Idempotency-Key": "same"}

	type result struct {
		code int
		body []byte
		err  error
	}
	first := make(chan result, 1)
	go func() {
		req, _ := http.NewRequest(http.MethodPost, a.srv.URL+"/api/bookings", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "same")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			first <- result{err: err}
			return
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		first <- result{code: resp.StatusCode, body: b}
	}()

	<-a.prices.entered
	if code, b := a.do(t, http.MethodPost, "/api/bookings", body, hdr); code != http.StatusConflict {
		t.Errorf("second request while first in flight: %d %s", code, b)
	}
	close(a.prices.gate)

	res := <-first
	if res.err != nil {
		t.Fatal(res.err)
	}
	if res.code != http.StatusCreated {
		t.Fatalf("first request: %d %s", res.code, res.body)
	}
	code, replay := a.do(t, http.MethodPost, "/api/bookings", body, hdr)
	if code != http.StatusOK || string(replay) != string(res.body) {
		t.Errorf("replay after completion: %d %s, want 200 %s", code, replay, res.body)
	}
	if all, _ := a.store.List(context.Background()); len(all) != 1 {
		t.Errorf("stored %d bookings, want 1", len(all))
	}
}

func TestCreateBookingFailureReleasesKey(t *testing.T) {
	a := newTestAPI(t)
	body := `{"guestId":"g-1","roomId":1,"checkInDate":"2024-05-01","checkOutDate":"2024-05-02"}`
	hdr := map[string]string{"Idempotency-Key": "retry-me"}

	a.prices.err = errors.New("connection refused")
	if code, _ := a.do(t, http.MethodPost, "/api/bookings", body, hdr); code != http.StatusBadGateway {
		t.Fatalf("failing create: %d", code)
	}
	a.prices.err = nil
	if code, b := a.do(t, http.MethodPost, "/api/bookings", body, hdr); code != http.StatusCreated {
		t.Fatalf("retry with same key: %d %s", code, b)
	}
	if id := a.idem.keys["retry-me"]; id != 1 {
		t.Errorf("remembered id = %d, want 1", id)
	}
}

func TestCreateBookingErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		fail bool
		want int
	}{
		{"bad json", `{`, false, http.StatusBadRequest},
		{"missing guest", `{"roomId":1,"checkInDate":"2024-05-01","checkOutDate":"2024-05-02"}`, false, http.StatusBadRequest},
		{"bad date", `{"guestId":"g","roomId":1,"checkInDate":"05/01/2024","checkOutDate":"2024-05-02"}`, false, http.StatusBadRequest},
		{"unknown room", `{"guestId":"g","roomId":99,"checkInDate":"2024-05-01","checkOutDate":"2024-05-02"}`, false, http.StatusBadGateway},
		{"rooms down", `{"guestId":"g","roomId":1,"checkInDate":"2024-05-01","checkOutDate":"2024-05-02"}`, true, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAPI(t)
			if tc.fail {
				a.prices.err = errors.New("connection refused")
			}
			code, body := a.do(t, http.MethodPost, "/api/bookings", tc.body, nil)
			if code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", code, tc.want, body)
			}
			if all, _ := a.store.List(context.Background()); len(all) != 0 {
				t.Errorf("stored %d bookings after failure", len(all))
			}
		})
	}
}

func TestUpdateBooking(t *testing.T) {
	a := newTestAPI(t)
	a.do(t, http.MethodPost, "/api/bookings",
		`{"guestId":"g-1","roomId":1,"checkInDate":"2024-05-01","checkOutDate":"2024-05-03"}`, nil)

	if code, body := a.do(t, http.MethodPut, "/api/bookings/1", `{"roomId":2}`, nil); code != http.StatusOK {
		t.Fatalf("update room: %d %s", code, body)
	}
	b, _ := a.store.Get(context.Background(), 1)
	if !b.TotalPrice.Equal(decimal.RequireFromString("300")) {
		t.Errorf("total after room change = %s, want 300", b.TotalPrice)
	}

	if code, body := a.do(t, http.MethodPut, "/api/bookings/1", `{"status":"CONFIRMED"}`, nil); code != http.StatusOK {
		t.Fatalf("update status: %d %s", code, body)
	}
	if code, _ := a.do(t, http.MethodPut, "/api/bookings/1", `{"status":"LOST"}`, nil); code != http.StatusBadRequest {
		t.Errorf("unknown status: got %d, want 400", code)
	}
	if code, _ := a.do(t, http.MethodPut, "/api/bookings/42", `{"status":"CONFIRMED"}`, nil); code != http.StatusNotFound {
		t.Errorf("missing booking: got %d, want 404", code)
	}

	a.prices.err = errors.New("timeout")
	if code, _ := a.do(t, http.MethodPut, "/api/bookings/1", `{"checkOutDate":"2024-05-10"}`, nil); code != http.StatusBadGateway {
		t.Errorf("reconciliation failure: got %d, want 502", code)
	}
	b, _ = a.store.Get(context.Background(), 1)
	if b.Status != booking.StatusConfirmed || b.CheckOut.Format(dateLayout) != "2024-05-03" {
		t.Errorf("booking changed after failed update: %+v", b)
	}
}

func TestListAndDeleteBookings(t *testing.T) {
	a := newTestAPI(t)
	for _, g := range []string{"alice", "bob", "alice"} {
		a.do(t, http.MethodPost, "/api/bookings",
			`{"guestId":"`+g+`","roomId":1,"checkInDate":"2024-05-01","checkOutDate":"2024-05-02"}`, nil)
	}

	_, body := a.do(t, http.MethodGet, "/api/bookings?guestId=alice", "", nil)
	var list []BookingResp
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != 1 || list[1].ID != 3 {
		t.Errorf("alice bookings = %+v", list)
	}

	if code, _ := a.do(t, http.MethodDelete, "/api/bookings/2", "", nil); code != http.StatusOK {
		t.Fatalf("delete: %d", code)
	}
	if code, _ := a.do(t, http.MethodDelete, "/api/bookings/2", "", nil); code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want 404", code)
	}
	if code, _ := a.do(t, http.MethodGet, "/api/bookings/abc", "", nil); code != http.StatusBadRequest {
		t.Errorf("bad id: got %d, want 400", code)
	}
}

func TestInvoices(t *testing.T) {
	a := newTestAPI(t)
	a.do(t, http.MethodPost, "/api/bookings",
		`{"guestId":"g-1","roomId":2,"checkInDate":"2024-05-01","checkOutDate":"2024-05-03"}`, nil)

	code, body := a.do(t, http.MethodPost, "/api/invoices",
		`{"bookingId":1,"services":[{"name":"breakfast","price":"12.50"}]}`, nil)
	if code != http.StatusCreated {
		t.Fatalf("issue: %d %s", code, body)
	}
	if code, _ := a.do(t, http.MethodPost, "/api/invoices", `{"bookingId":1}`, nil); code != http.StatusCreated {
		t.Fatalf("duplicate issue: %d", code)
	}
	if code, _ := a.do(t, http.MethodPost, "/api/invoices", `{"bookingId":9}`, nil); code != http.StatusNotFound {
		t.Errorf("missing booking: got %d, want 404", code)
	}

	_, body = a.do(t, http.MethodGet, "/api/invoices?bookingId=1", "", nil)
	var invs []InvoiceResp
	if err := json.Unmarshal(body, &invs); err != nil {
		t.Fatal(err)
	}
	if len(invs) != 2 {
		t.Fatalf("invoices = %d, want 2", len(invs))
	}
	if !invs[0].Amount.Equal(decimal.RequireFromString("300")) {
		t.Errorf("amount = %s, want 300", invs[0].Amount)
	}
	if len(invs[0].Services) != 1 || invs[0].Services[0].Name != "breakfast" {
		t.Errorf("services = %+v", invs[0].Services)
	}
	if code, _ := a.do(t, http.MethodGet, "/api/invoices?bookingId=x", "", nil); code != http.StatusBadRequest {
		t.Errorf("bad bookingId: got %d, want 400", code)
	}
}

func TestHealthz(t *testing.T) {
	a := newTestAPI(t)
	if code, _ := a.do(t, http.MethodGet, "/healthz", "", nil); code != http.StatusOK {
		t.Errorf("healthz = %d", code)
	}
	if code, _ := a.do(t, http.MethodGet, "/readyz", "", nil); code != http.StatusOK {
		t.Errorf("readyz = %d", code)
	}
}
