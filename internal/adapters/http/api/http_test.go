package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/okian/hello/internal/adapters/http/api"
	"github.com/okian/hello/pkg/logger"
	"github.com/okian/hello/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// Mock implementations for testing
type mockGreeter struct {
	msg   string
	err   error
	calls int
}

func (m *mockGreeter) Greeting(context.Context) (api.Message, error) {
	m.calls++
	if m.err != nil {
		return api.Message{}, m.err
	}
	return api.Message{Message: m.msg}, nil
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "greetingsServed": 3, "greeting": "Hello World"}
}

func newMux(greeter *mockGreeter, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(greeter, mockStats{}, opts...).Register(context.Background(), mux)
	return mux
}

func serve(mux http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Greeting(t *testing.T) {
	Convey("Given an API server with a greeter", t, func() {
		greeter := &mockGreeter{msg: "Hello World"}
		mux := newMux(greeter)

		Convey("When requesting GET /api/hello", func() {
			w := serve(mux, http.MethodGet, "/api/hello", nil)

			Convey("Then the greeting should be returned as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				var body map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body, ShouldResemble, map[string]string{"message": "Hello World"})
				So(greeter.calls, ShouldEqual, 1)
			})

			Convey("And cross-origin headers should be present", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
				So(w.Header().Get("Access-Control-Allow-Methods"), ShouldContainSubstring, "GET")
			})

			Convey("And a request id should be generated", func() {
				_, err := uuid.Parse(w.Header().Get(api.RequestIDHeader))
				So(err, ShouldBeNil)
			})
		})

		Convey("When the caller supplies a request id", func() {
			w := serve(mux, http.MethodGet, "/api/hello", http.Header{api.RequestIDHeader: {"abc-123"}})

			Convey("Then it should be echoed", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})

		Convey("When the caller sends the request id header in lower case", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/hello", nil)
			req.Header.Set("x-request-id", "lower-456")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should still be echoed", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "lower-456")
				So(w.Header().Values("X-Request-Id"), ShouldResemble, []string{"lower-456"})
			})
		})

		Convey("When sending a non-GET request", func() {
			w := serve(mux, http.MethodPost, "/api/hello", nil)

			Convey("Then it should return not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(greeter.calls, ShouldEqual, 0)
			})
		})

		Convey("When sending a preflight request", func() {
			w := serve(mux, http.MethodOptions, "/api/hello", nil)

			Convey("Then it should return no content with CORS headers", func() {
				So(w.Code, ShouldEqual, http.StatusNoContent)
				So(w.Header().Get("Access-Control-Allow-Headers"), ShouldContainSubstring, api.RequestIDHeader)
				So(greeter.calls, ShouldEqual, 0)
			})
		})
	})

	Convey("Given an API server with a restricted origin", t, func() {
		mux := newMux(&mockGreeter{msg: "hi"}, api.WithAllowOrigin("http://localhost:3000"))

		Convey("Then the configured origin should be sent", func() {
			w := serve(mux, http.MethodGet, "/api/hello", nil)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "http://localhost:3000")
			So(w.Header().Get("Vary"), ShouldEqual, "Origin")
		})
	})

	Convey("Given a greeter that fails", t, func() {
		mux := newMux(&mockGreeter{err: errors.New("service not started")})

		Convey("When requesting GET /api/hello", func() {
			w := serve(mux, http.MethodGet, "/api/hello", nil)

			Convey("Then it should return service unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				var body map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body, ShouldContainKey, "detail")
				So(body["detail"], ShouldContainSubstring, "service unavailable")
			})
		})
	})
}

func TestServer_Routes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(&mockGreeter{msg: "Hello World"})

		Convey("When requesting an unknown API path", func() {
			w := serve(mux, http.MethodGet, "/api/protected", nil)

			Convey("Then it should return a JSON not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				var body api.ErrorResponse
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body, ShouldResemble, api.ErrorResponse{Detail: "Not found"})
				So(w.Body.String(), ShouldNotContainSubstring, "code")
			})
		})

		Convey("When requesting the stats endpoint", func() {
			w := serve(mux, http.MethodGet, "/stats", nil)

			Convey("Then service stats should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["greeting"], ShouldEqual, "Hello World")
				So(body["started"], ShouldEqual, true)
			})

			Convey("And non-GET requests should be rejected", func() {
				So(serve(mux, http.MethodPost, "/stats", nil).Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When requesting the health endpoint", func() {
			serve(mux, http.MethodGet, "/api/hello", nil)
			w := serve(mux, http.MethodGet, "/healthz", nil)

			Convey("Then Prometheus metrics should be exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "hello_http_requests_total")
			})
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler wrapped with metrics", t, func() {
		handler := api.MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}, "teapot")

		Convey("When it answers with a client error", func() {
			w := httptest.NewRecorder()
			handler(w, httptest.NewRequest(http.MethodGet, "/teapot", nil))

			Convey("Then request and error series should be recorded", func() {
				So(w.Code, ShouldEqual, http.StatusTeapot)
				count, err := testutil.GatherAndCount(metrics.GetRegistry(),
					"hello_http_requests_total", "hello_errors_by_endpoint_total")
				So(err, ShouldBeNil)
				So(count, ShouldBeGreaterThanOrEqualTo, 2)

				families, err := metrics.GetRegistry().Gather()
				So(err, ShouldBeNil)
				found := false
				for _, mf := range families {
					if mf.GetName() != "hello_errors_by_endpoint_total" {
						continue
					}
					for _, m := range mf.GetMetric() {
						for _, lp := range m.GetLabel() {
							if lp.GetName() == "endpoint" && lp.GetValue() == "teapot" {
								found = true
							}
						}
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestKindErrors(t *testing.T) {
	Convey("Given kind helpers", t, func() {
		cause := errors.New("boom")

		Convey("Then NewKind should unwrap to its kind", func() {
			err := api.NewKind("op", api.ErrNotFound)
			So(errors.Is(err, api.ErrNotFound), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "op: not found")
		})

		Convey("And WrapKind should unwrap to kind and cause", func() {
			err := api.WrapKind("op", api.ErrUnavailable, cause)
			So(errors.Is(err, api.ErrUnavailable), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(strings.Count(err.Error(), ":"), ShouldEqual, 2)
		})

		Convey("And WrapKind with a nil cause should behave like NewKind", func() {
			So(api.WrapKind("op", api.ErrNotFound, nil).Error(), ShouldEqual, "op: not found")
		})
	})
}

func TestRequestIDFromContext(t *testing.T) {
	Convey("Given a context without a request id", t, func() {
		So(api.RequestIDFromContext(context.Background()), ShouldEqual, "")
	})

	Convey("Given a handler behind the request id middleware", t, func() {
		var seen string
		h := api.RequestIDMiddleware(func(_ http.ResponseWriter, r *http.Request) {
			seen = api.RequestIDFromContext(r.Context())
		}, nil)
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/api/hello", nil))

		Convey("Then the handler should see the same id as the response header", func() {
			So(seen, ShouldNotBeEmpty)
			So(seen, ShouldEqual, w.Header().Get(api.RequestIDHeader))
		})
	})
}
