package restclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/gomega"
)

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		received *http.Request
		status   int
		body     string
	)

	BeforeEach(func() {
		status = http.StatusOK
		body = `{"data":[]}`
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				_ = r.ParseMultipartForm(1 << 20)
			}
			received = r
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("attaches bearer token and a request id", func() {
		c := New(server.URL, WithToken("secret"), WithHTTPClient(server.Client()))
		_, err := c.Get(context.Background(), "/districts", nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(received.Header.Get("Authorization")).To(Equal("Bearer secret"))
		Expect(received.Header.Get("X-Request-ID")).ToNot(BeEmpty())
	})

	It("maps non-2xx responses to APIError with the server message", func() {
		status = http.StatusConflict
		body = `{"message":"district already exists"}`
		c := New(server.URL, WithHTTPClient(server.Client()))
		_, err := c.PostJSON(context.Background(), "/districts", map[string]any{"name": "Pune"})
		Expect(err).To(HaveOccurred())
		apiErr, ok := err.(*APIError)
		Expect(ok).To(BeTrue())
		Expect(apiErr.StatusCode).To(Equal(http.StatusConflict))
		Expect(apiErr.Message).To(Equal("district already exists"))
		Expect(UserMessage(err, "fallback")).To(Equal("district already exists"))
	})

	It("falls back to a generic message when the error body is opaque", func() {
		status = http.StatusBadGateway
		body = `upstream timeout`
		c := New(server.URL, WithHTTPClient(server.Client()))
		_, err := c.Get(context.Background(), "/districts", nil)
		Expect(err).To(HaveOccurred())
		Expect(UserMessage(err, "something went wrong")).To(Equal("something went wrong"))
	})

	It("sends multipart bodies with stringified scalar fields", func() {
		c := New(server.URL, WithHTTPClient(server.Client()))
		fields := map[string]string{"name": "PSI Patil", "pincode": "411001"}
		_, err := c.PostMultipart(context.Background(), http.MethodPost, "/police-users", fields, "", "", nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(received.Header.Get("Content-Type")).To(HavePrefix("multipart/form-data"))
		Expect(received.FormValue("name")).To(Equal("PSI Patil"))
		Expect(received.FormValue("pincode")).To(Equal("411001"))
	})

	It("merges query values into the URL", func() {
		c := New(server.URL, WithHTTPClient(server.Client()))
		q := url.Values{}
		q.Set("search", "pune")
		_, err := c.Get(context.Background(), "/cities", q)
		Expect(err).ToNot(HaveOccurred())
		Expect(received.URL.Query().Get("search")).To(Equal("pune"))
	})
})

var _ = Describe("ListQuery", func() {
	It("translates the 0-based page index to a 1-based wire page", func() {
		q := ListQuery(2, 10, "pune")
		Expect(q.Get("page")).To(Equal("3"))
		Expect(q.Get("limit")).To(Equal("10"))
		Expect(q.Get("search")).To(Equal("pune"))
	})

	It("omits the search key when the term is empty", func() {
		q := ListQuery(0, 5, "")
		Expect(q.Has("search")).To(BeFalse())
	})
})
