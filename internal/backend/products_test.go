package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/storeops/storeconsole/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestProductClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/produits", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"nom":"Laptop","prix":999.99},{"id":2,"nom":"Souris","prix":19.5}]`))
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, time.Second)
	products, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, int64(1), products[0].ID)
	require.Equal(t, "Laptop", products[0].Name)
	require.Equal(t, 999.99, products[0].Price)
}

func TestProductClient_List_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, time.Second)
	_, err := c.List(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestProductClient_List_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewProductClient(srv.URL, time.Second)
	_, err := c.List(context.Background())
	require.Error(t, err)
}

// The product service answers a missing id with a 200 and a null body, in
// which case the client reports not found.
func TestProductClient_Get_NullBodyMeansNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, time.Second)
	_, err := c.Get(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/produits/1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"nom":"Laptop","prix":999.99}`))
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, time.Second)
	p, err := c.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Laptop", p.Name)
}

func TestProductClient_Create_SendsWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Clavier", body["nom"])
		require.Equal(t, 49.0, body["prix"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"nom":"Clavier","prix":49}`))
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, time.Second)
	created, err := c.Create(context.Background(), domain.Product{Name: "Clavier", Price: 49})
	require.NoError(t, err)
	require.Equal(t, int64(7), created.ID)
}

func TestProductClient_Delete(t *testing.T) {
	var deleted string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deleted = r.URL.Path
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, time.Second)
	require.NoError(t, c.Delete(context.Background(), 3))
	require.Equal(t, "/produits/3", deleted)
}

func TestProductClient_Delete_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, time.Second)
	err := c.Delete(context.Background(), 3)
	require.Error(t, err)
	require.Contains(t, err.Error(), "409")
}

func TestProductClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, time.Second)
	_, err := c.Ping(context.Background())
	require.NoError(t, err)
}
