package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedRoutesAndParams(t *testing.T) {
	r := New()
	r.Get("/products/{slug}", "product.show", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(Param(req, "slug")))
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/usb-c-hub", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "usb-c-hub", rec.Body.String())
}

func TestURLSubstitutesParams(t *testing.T) {
	r := New()
	r.Get("/products/{slug}", "product.show", func(http.ResponseWriter, *http.Request) {})

	url, err := r.URL("product.show", map[string]string{"slug": "usb-c-hub"})
	require.NoError(t, err)
	assert.Equal(t, "/products/usb-c-hub", url)

	_, err = r.URL("product.show", nil)
	assert.Error(t, err, "unsubstituted params should error")

	_, err = r.URL("no.such.route", nil)
	assert.Error(t, err)
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	var sawMiddleware bool
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sawMiddleware = true
			next.ServeHTTP(w, req)
		})
	}

	r := New()
	g := r.Group("/orders", mw)
	g.Get("/{order}", "order.show", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/7", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawMiddleware)

	path, ok := r.Path("order.show")
	require.True(t, ok)
	assert.Equal(t, "/orders/{order}", path)
}

func TestRootGroupAddsNoPrefix(t *testing.T) {
	var hits []string
	mw := func(next http.Handler) http.Handler { return next }

	r := New()
	g := r.Group("/", mw)
	g.Get("/cart", "cart.show", func(w http.ResponseWriter, req *http.Request) {
		hits = append(hits, req.URL.Path)
	})
	g.Post("/checkout", "order.store", func(w http.ResponseWriter, req *http.Request) {
		hits = append(hits, req.URL.Path)
	})

	path, ok := r.Path("cart.show")
	require.True(t, ok)
	assert.Equal(t, "/cart", path)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"/cart", "/checkout"}, hits)
}

func TestRoutesSortedForListing(t *testing.T) {
	r := New()
	noop := func(http.ResponseWriter, *http.Request) {}
	r.Post("/cart/{product}", "cart.add", noop)
	r.Get("/cart", "cart.show", noop)

	infos := r.Routes()
	require.Len(t, infos, 2)
	assert.Equal(t, "cart.show", infos[0].Name)
	assert.Equal(t, "cart.add", infos[1].Name)
}
