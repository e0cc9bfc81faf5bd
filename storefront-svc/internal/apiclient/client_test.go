package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zestify-storefront/storefront-svc/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL + "/", Timeout: 2 * time.Second, MaxFailures: 2, OpenTimeout: time.Minute}, server.Client())
}

func TestClient_ListRestaurantsNormalisesIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/restaurants", r.URL.Path)
		_, _ = io.WriteString(w, `{"data":[
			{"_id":{"$oid":"r1"},"name":"Spice Route","address":{"street":"MG Road","city":"Pune"},"cuisine":"Indian, Chinese","deliveryTime":"30-40 mins","location":{"coordinates":[73.8,18.5]}},
			{"id":42,"name":"Pizza Planet","cuisine":["Italian"],"isOpen":false,"deliveryTime":25}
		]}`)
	})

	restaurants, err := client.ListRestaurants(context.Background())
	require.NoError(t, err)
	require.Len(t, restaurants, 2)

	assert.Equal(t, "r1", restaurants[0].ID)
	assert.Equal(t, "MG Road, Pune", restaurants[0].Address)
	assert.Equal(t, []string{"Indian", "Chinese"}, restaurants[0].Cuisine)
	assert.Equal(t, 30, restaurants[0].DeliveryTime)
	assert.True(t, restaurants[0].IsOpen)
	require.NotNil(t, restaurants[0].Location)
	assert.Equal(t, 18.5, restaurants[0].Location.Lat)

	assert.Equal(t, "42", restaurants[1].ID)
	assert.False(t, restaurants[1].IsOpen)
	assert.Equal(t, 25, restaurants[1].DeliveryTime)
}

func TestClient_GetMenuBareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/menu/r1", r.URL.Path)
		assert.Equal(t, "paneer", r.URL.Query().Get("q"))
		_, _ = io.WriteString(w, `[
			{"_id":"m1","restaurant":{"_id":"r1","name":"Spice Route"},"name":"Paneer Tikka","price":220,"category":{"name":"Starters"},"isVeg":true},
			{"_id":"m2","name":"Paneer Pizza","price":300,"category":"Pizza","isAvailable":false,"addons":[{"_id":"a1","name":"Cheese","price":40}]}
		]`)
	})

	items, err := client.GetMenu(context.Background(), "r1", " paneer ")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, domain.MenuItem{
		ID: "m1", RestaurantID: "r1", Name: "Paneer Tikka", Price: 220, Category: "Starters", IsVeg: true, IsAvailable: true,
	}, items[0])

	assert.Equal(t, "r1", items[1].RestaurantID)
	assert.False(t, items[1].IsAvailable)
	assert.True(t, items[1].HasAddons)
	require.Len(t, items[1].Addons, 1)
	assert.True(t, items[1].Addons[0].IsAvailable)
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		is      error
	}{
		{name: "message from body", status: http.StatusBadRequest, body: `{"message":"Coupon expired"}`, message: "Coupon expired", is: domain.ErrNetwork},
		{name: "generic fallback", status: http.StatusBadRequest, body: `oops`, message: domain.GenericErrorMessage, is: domain.ErrNetwork},
		{name: "blank message", status: http.StatusConflict, body: `{"message":"  "}`, message: domain.GenericErrorMessage, is: domain.ErrNetwork},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"Token expired"}`, message: "Token expired", is: domain.ErrUnauthorized},
		{name: "not found", status: http.StatusNotFound, body: `{}`, message: domain.GenericErrorMessage, is: domain.ErrNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(testCase.status)
				_, _ = io.WriteString(w, testCase.body)
			})

			_, err := client.GetRestaurant(context.Background(), "r1")
			require.Error(t, err)
			assert.ErrorIs(t, err, testCase.is)

			var netErr *domain.NetworkError
			require.True(t, errors.As(err, &netErr))
			assert.Equal(t, testCase.status, netErr.StatusCode)
			assert.Equal(t, testCase.message, netErr.Message)
		})
	}
}

func TestClient_BearerTokenAndOrderPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "chk-1", r.Header.Get("Idempotency-Key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "r1", body["restaurant"])
		assert.NotContains(t, body, "IdempotencyKey")
		assert.Equal(t, 500.0, body["totalAmount"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"order":{"_id":"o1","restaurant":"r1","status":"placed","totalAmount":500,"items":[{"menuItem":{"_id":"m1"},"name":"Thali","quantity":2,"price":250}]}}`)
	})

	order, err := client.CreateOrder(context.Background(), "tok", domain.OrderRequest{
		RestaurantID:   "r1",
		TotalAmount:    500,
		Items:          []domain.OrderItem{{MenuItemID: "m1", Name: "Thali", Quantity: 2, Price: 250}},
		IdempotencyKey: "chk-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, "r1", order.RestaurantID)
	assert.Empty(t, order.RestaurantName)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "m1", order.Items[0].MenuItemID)
}

func TestClient_LoginRequiresToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var creds domain.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password == "right" {
			_, _ = io.WriteString(w, `{"token":"jwt","user":{"_id":"u1","name":"Asha","email":"asha@example.com"}}`)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	})

	state, err := client.Login(context.Background(), domain.Credentials{Email: "asha@example.com", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", state.Token)
	require.NotNil(t, state.Profile)
	assert.Equal(t, "u1", state.Profile.ID)

	_, err = client.Login(context.Background(), domain.Credentials{Email: "asha@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestClient_PushDraft(t *testing.T) {
	var got domain.DraftCart
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/orders/draft", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.PushDraft(context.Background(), domain.DraftCart{SessionID: "s1", Cart: domain.CartSnapshot{RestaurantID: "r1", Version: 3}})
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, uint64(3), got.Cart.Version)
}

func TestClient_ConcurrentGetsShareOneRequest(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		<-release
		_, _ = io.WriteString(w, `[{"_id":"a1","name":"Cheese","price":40}]`)
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			addons, err := client.GetAddons(context.Background(), "m1")
			assert.NoError(t, err)
			assert.Len(t, addons, 1)
		}()
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_BreakerOpensOnServerErrorsOnly(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusBadRequest)
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(int(status.Load()))
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := client.GetOrder(ctx, "", "o1")
		require.Error(t, err)
	}
	assert.Equal(t, "closed", client.BreakerState())

	status.Store(http.StatusBadGateway)
	for i := 0; i < 2; i++ {
		_, err := client.GetOrder(ctx, "", "o1")
		require.Error(t, err)
	}
	assert.Equal(t, "open", client.BreakerState())

	before := hits.Load()
	_, err := client.GetOrder(ctx, "", "o1")
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, before, hits.Load())
}

func TestDecodeEnvelope(t *testing.T) {
	var out []string
	require.NoError(t, decodeEnvelope([]byte(`{"data":{"items":["a","b"]}}`), &out, "items"))
	assert.Equal(t, []string{"a", "b"}, out)

	var obj struct {
		Name string `json:"name"`
	}
	require.NoError(t, decodeEnvelope([]byte(`{"name":"bare"}`), &obj))
	assert.Equal(t, "bare", obj.Name)

	err := decodeEnvelope([]byte(`{"data":"nope"}`), &obj)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}
