package epolice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/gomega"

	"epolice/pkg/cascade"
	"epolice/pkg/listctrl"
	"epolice/pkg/restclient"
)

var _ = Describe("Resources", func() {
	var (
		mu     sync.Mutex
		paths  []string
		routes map[string]string
		server *httptest.Server
		res    *Resources
	)

	BeforeEach(func() {
		paths = nil
		routes = map[string]string{}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			paths = append(paths, r.URL.Path)
			body, ok := routes[r.URL.Path]
			mu.Unlock()
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"record not found"}`))
				return
			}
			_, _ = w.Write([]byte(body))
		}))
		res = NewResources(restclient.New(server.URL, restclient.WithHTTPClient(server.Client())))
	})

	AfterEach(func() {
		server.Close()
	})

	requested := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), paths...)
	}

	It("loads countries from the irregular getcountry path", func() {
		routes["/states/getcountry"] = `{"data":[{"id":1,"name":"India"}]}`
		r := res.NewCascade()
		opts, err := r.Open(context.Background(), LevelCountry)
		Expect(err).ToNot(HaveOccurred())
		Expect(opts).To(ConsistOf(cascade.Option{ID: "1", Label: "India"}))
		Expect(requested()).To(ConsistOf("/states/getcountry"))
	})

	It("scopes child levels to their parent id", func() {
		routes["/states/country/1"] = `{"data":{"result":[{"id":5,"name":"Maharashtra"}]}}`
		r := res.NewCascade()
		Expect(r.Select(LevelCountry, "1")).To(Succeed())
		opts, err := r.Open(context.Background(), LevelState)
		Expect(err).ToNot(HaveOccurred())
		Expect(opts).To(ConsistOf(cascade.Option{ID: "5", Label: "Maharashtra"}))
		Expect(requested()).To(ConsistOf("/states/country/1"))
	})

	It("sorts dropdown options by label", func() {
		routes["/districts/state/5"] = `{"data":[{"id":2,"name":"Pune"},{"id":1,"name":"Amravati"}]}`
		r := res.NewCascade()
		Expect(r.Select(LevelCountry, "1")).To(Succeed())
		Expect(r.Select(LevelState, "5")).To(Succeed())
		opts, err := r.Open(context.Background(), LevelDistrict)
		Expect(err).ToNot(HaveOccurred())
		Expect(opts[0].Label).To(Equal("Amravati"))
	})

	It("fetches list pages with wire paging and reads the total", func() {
		routes["/districts"] = `{"data":[{"id":12,"name":"Pune"}],"totalRecords":21}`
		page, err := res.ListPage(ResDistricts)(context.Background(), listctrl.Query{PageIndex: 2, PageSize: 10})
		Expect(err).ToNot(HaveOccurred())
		Expect(page.Rows).To(HaveLen(1))
		Expect(page.Total).To(Equal(21))
	})

	It("builds the ancestor chain from a detail payload", func() {
		routes["/police-users/42"] = `{"data":{
			"id":42,"name":"PSI Patil","pincode":"411001",
			"country_id":1,"country_name":"India",
			"state_id":5,"state_name":"Maharashtra",
			"district_id":12,"district_name":"Pune",
			"city_id":30,"city_name":"Pune City",
			"sdpo_id":7,"sdpo_name":"Shivajinagar Division",
			"police_station_id":101,"police_station_name":"Shivajinagar PS"}}`
		d, err := res.Detail(ResPoliceUsers)(context.Background(), "42")
		Expect(err).ToNot(HaveOccurred())
		Expect(d.Values["name"]).To(Equal("PSI Patil"))
		Expect(d.Values["country_id"]).To(Equal("1"))
		Expect(d.Chain).To(HaveLen(6))
		Expect(d.Chain[2]).To(Equal(cascade.Selection{Level: LevelDistrict, ID: "12", Label: "Pune"}))
		Expect(d.Chain[5].Level).To(Equal(LevelStation))
	})

	It("stops the chain at the first absent ancestor", func() {
		routes["/districts/12"] = `{"data":{"id":12,"name":"Pune","country_id":1,"country_name":"India","state_id":5,"state_name":"Maharashtra"}}`
		d, err := res.Detail(ResDistricts)(context.Background(), "12")
		Expect(err).ToNot(HaveOccurred())
		Expect(d.Chain).To(HaveLen(2))
	})

	It("maps a failed detail fetch to an API error", func() {
		_, err := res.Detail(ResDistricts)(context.Background(), "404")
		Expect(err).To(HaveOccurred())
		Expect(restclient.UserMessage(err, "x")).To(Equal("record not found"))
	})
})

var _ = Describe("ID decoding", func() {
	It("accepts numbers and numeric strings", func() {
		var s struct {
			A ID `json:"a"`
			B ID `json:"b"`
			C ID `json:"c"`
		}
		Expect(json.Unmarshal([]byte(`{"a":7,"b":"8","c":null}`), &s)).To(Succeed())
		Expect(s.A.String()).To(Equal("7"))
		Expect(s.B.String()).To(Equal("8"))
		Expect(s.C).To(BeZero())
	})
})

var _ = Describe("Form lookup", func() {
	It("declares the full cascade on the police user form", func() {
		f := Form(ResPoliceUsers)
		Expect(f.CascadeFields()).To(HaveLen(6))
	})

	It("carries the district status field", func() {
		names := map[string]bool{}
		for _, fld := range Form(ResDistricts).Fields {
			names[fld.Name] = true
		}
		Expect(names).To(HaveKey("status"))
		Expect(names).To(HaveKey("min_distance"))
	})

	It("returns an empty descriptor for unknown resources", func() {
		Expect(Form("nope").Fields).To(BeEmpty())
	})
})
