package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veloretail/bulkcart-backend/api/middleware"
	"github.com/veloretail/bulkcart-backend/internal/cart"
	"github.com/veloretail/bulkcart-backend/pkg/enums"
	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
	"github.com/veloretail/bulkcart-backend/pkg/types"
)

type stubCartService struct {
	addCalls    int
	lastUserID  uuid.UUID
	lastType    enums.UserType
	lastProduct uuid.UUID
	lastQty     int
	addErr      error
	cleared     int
}

func (s *stubCartService) AddItem(_ context.Context, userID uuid.UUID, userType enums.UserType, productID uuid.UUID, quantity int) (*cart.CartDTO, error) {
	s.addCalls++
	s.lastUserID = userID
	s.lastType = userType
	s.lastProduct = productID
	s.lastQty = quantity
	if s.addErr != nil {
		return nil, s.addErr
	}
	dto := cart.NewCartDTO(nil)
	dto.ItemCount = quantity
	dto.Subtotal = decimal.NewFromInt(int64(quantity) * 90)
	return dto, nil
}

func (s *stubCartService) UpdateItem(ctx context.Context, userID uuid.UUID, userType enums.UserType, productID uuid.UUID, quantity int) (*cart.CartDTO, error) {
	return s.AddItem(ctx, userID, userType, productID, quantity)
}

func (s *stubCartService) RemoveItem(context.Context, uuid.UUID, uuid.UUID) (*cart.CartDTO, error) {
	return cart.NewCartDTO(nil), nil
}

func (s *stubCartService) Clear(context.Context, uuid.UUID) error {
	s.cleared++
	return nil
}

func (s *stubCartService) GetCart(context.Context, uuid.UUID) (*cart.CartDTO, error) {
	return cart.NewCartDTO(nil), nil
}

func cartRouter(ctrl *CartController) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/cart", ctrl.Get)
	r.Delete("/api/v1/cart", ctrl.Clear)
	r.Post("/api/v1/cart/{productID}", ctrl.AddItem)
	r.Put("/api/v1/cart/{productID}", ctrl.UpdateItem)
	r.Delete("/api/v1/cart/{productID}", ctrl.RemoveItem)
	return r
}

func authedRequest(t *testing.T, method, target string, body []byte, userID uuid.UUID, userType enums.UserType) *http.Request {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithUserType(ctx, string(userType))
	return req.WithContext(ctx)
}

func TestAddItemForwardsActor(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	router := cartRouter(NewCartController(svc, nil))

	userID := uuid.New()
	productID := uuid.New()
	req := authedRequest(t, http.MethodPost, "/api/v1/cart/"+productID.String(), []byte(`{"quantity":12}`), userID, enums.UserTypeCorporate)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.addCalls != 1 {
		t.Fatalf("expected one AddItem call, got %d", svc.addCalls)
	}
	if svc.lastUserID != userID || svc.lastProduct != productID {
		t.Fatal("actor or product not forwarded")
	}
	if svc.lastType != enums.UserTypeCorporate || svc.lastQty != 12 {
		t.Fatalf("expected corporate qty 12, got %s qty %d", svc.lastType, svc.lastQty)
	}
}

func TestAddItemRejectsBadProductID(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	router := cartRouter(NewCartController(svc, nil))

	req := authedRequest(t, http.MethodPost, "/api/v1/cart/not-a-uuid", []byte(`{"quantity":1}`), uuid.New(), enums.UserTypeIndividual)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.addCalls != 0 {
		t.Fatal("service should not be called for an invalid product id")
	}
}

func TestAddItemRequiresAuthContext(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	router := cartRouter(NewCartController(svc, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/"+uuid.NewString(), bytes.NewBufferString(`{"quantity":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth context, got %d", rec.Code)
	}
}

func TestAddItemStockErrorDetails(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{
		addErr: pkgerrors.New(pkgerrors.CodeInsufficientStock, "requested quantity exceeds available stock").
			WithDetails(map[string]int{"available_quantity": 3}),
	}
	router := cartRouter(NewCartController(svc, nil))

	req := authedRequest(t, http.MethodPost, "/api/v1/cart/"+uuid.NewString(), []byte(`{"quantity":10}`), uuid.New(), enums.UserTypeIndividual)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				AvailableQuantity int `json:"available_quantity"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "INSUFFICIENT_STOCK" {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %q", envelope.Error.Code)
	}
	if envelope.Error.Details.AvailableQuantity != 3 {
		t.Fatalf("expected available_quantity 3, got %d", envelope.Error.Details.AvailableQuantity)
	}
}

func TestClearCart(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	router := cartRouter(NewCartController(svc, nil))

	req := authedRequest(t, http.MethodDelete, "/api/v1/cart", nil, uuid.New(), enums.UserTypeIndividual)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.cleared != 1 {
		t.Fatalf("expected one Clear call, got %d", svc.cleared)
	}
}

func TestGetCartEmptyShape(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	router := cartRouter(NewCartController(svc, nil))

	req := authedRequest(t, http.MethodGet, "/api/v1/cart", nil, uuid.New(), enums.UserTypeIndividual)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope types.SuccessEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object payload, got %T", envelope.Data)
	}
	items, ok := data["items"].([]any)
	if !ok {
		t.Fatalf("expected items array, got %v", data["items"])
	}
	if len(items) != 0 {
		t.Fatalf("expected empty items, got %d", len(items))
	}
}
