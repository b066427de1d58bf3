package restclient

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/ginkgo/v2/dsl/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Envelope unwrapper", func() {
	var u *Unwrapper

	BeforeEach(func() {
		u = &Unwrapper{}
	})

	DescribeTable(
		"Extracts the same array from every observed envelope shape",
		func(body string) {
			rows := u.ExtractArray(json.RawMessage(body))
			Expect(rows).To(HaveLen(2))
			var first map[string]any
			Expect(json.Unmarshal(rows[0], &first)).To(Succeed())
			Expect(first["name"]).To(Equal("Pune"))
		},
		Entry("Raw array", `[{"name":"Pune"},{"name":"Nagpur"}]`),
		Entry("Under data", `{"data":[{"name":"Pune"},{"name":"Nagpur"}]}`),
		Entry("Under data.data", `{"data":{"data":[{"name":"Pune"},{"name":"Nagpur"}]}}`),
		Entry("Under data.result", `{"data":{"result":[{"name":"Pune"},{"name":"Nagpur"}]}}`),
	)

	It("treats a body with no array at any path as an empty result", func() {
		rows := u.ExtractArray(json.RawMessage(`{"data":{"status":"ok"}}`))
		Expect(rows).To(BeEmpty())
	})

	It("treats malformed JSON as an empty result", func() {
		rows := u.ExtractArray(json.RawMessage(`{"data":`))
		Expect(rows).To(BeEmpty())
	})

	It("prefers the outermost candidate path", func() {
		// data is itself an array, so data.data must not be probed.
		rows := u.ExtractArray(json.RawMessage(`{"data":[{"id":1}]}`))
		Expect(rows).To(HaveLen(1))
	})

	Describe("Single entity extraction", func() {
		It("returns a wrapped object", func() {
			e, ok := u.ExtractEntity(json.RawMessage(`{"data":{"id":7,"name":"Pune"}}`))
			Expect(ok).To(BeTrue())
			var m map[string]any
			Expect(json.Unmarshal(e, &m)).To(Succeed())
			Expect(m["id"]).To(BeNumerically("==", 7))
		})

		It("never returns the envelope when the entity sits deeper", func() {
			// The body is a non-empty object at every wrapping level; only
			// the innermost match is the entity.
			e, ok := u.ExtractEntity(json.RawMessage(`{"status":"ok","data":{"data":{"id":7,"name":"Pune"}}}`))
			Expect(ok).To(BeTrue())
			var m map[string]any
			Expect(json.Unmarshal(e, &m)).To(Succeed())
			Expect(m).NotTo(HaveKey("data"))
			Expect(m["name"]).To(Equal("Pune"))
		})

		It("returns a bare unwrapped object", func() {
			e, ok := u.ExtractEntity(json.RawMessage(`{"id":7,"name":"Pune"}`))
			Expect(ok).To(BeTrue())
			var m map[string]any
			Expect(json.Unmarshal(e, &m)).To(Succeed())
			Expect(m["id"]).To(BeNumerically("==", 7))
		})

		It("unwraps a one-element array", func() {
			e, ok := u.ExtractEntity(json.RawMessage(`{"data":[{"id":7}]}`))
			Expect(ok).To(BeTrue())
			var m map[string]any
			Expect(json.Unmarshal(e, &m)).To(Succeed())
			Expect(m["id"]).To(BeNumerically("==", 7))
		})

		It("reports not found for empty payloads", func() {
			_, ok := u.ExtractEntity(json.RawMessage(`{"data":{}}`))
			Expect(ok).To(BeFalse())
		})
	})

	DescribeTable(
		"Total count preference order",
		func(body string, rowsLen, expected int) {
			Expect(TotalCount(json.RawMessage(body), rowsLen)).To(Equal(expected))
		},
		Entry("totalRecords wins", `{"totalRecords":21,"total":5,"count":3}`, 10, 21),
		Entry("total next", `{"total":5,"count":3}`, 10, 5),
		Entry("count next", `{"count":3}`, 10, 3),
		Entry("fallback to row count", `{"data":[]}`, 4, 4),
		Entry("non-object body falls back", `[1,2,3]`, 3, 3),
	)
})

var _ = Describe("Status normalization", func() {
	DescribeTable(
		"Canonicalizes every wire spelling",
		func(raw string, expected Status) {
			Expect(NormalizeStatus(raw)).To(Equal(expected))
		},
		Entry("Active", "Active", StatusActive),
		Entry("active lower", "active", StatusActive),
		Entry("Yes", "Yes", StatusActive),
		Entry("y short", "y", StatusActive),
		Entry("numeric one", "1", StatusActive),
		Entry("Inactive", "Inactive", StatusInactive),
		Entry("No", "No", StatusInactive),
		Entry("empty string", "", StatusInactive),
		Entry("garbage", "maybe", StatusInactive),
	)

	It("decodes booleans and numbers", func() {
		var s Status
		Expect(json.Unmarshal([]byte(`true`), &s)).To(Succeed())
		Expect(s).To(Equal(StatusActive))
		Expect(json.Unmarshal([]byte(`0`), &s)).To(Succeed())
		Expect(s).To(Equal(StatusInactive))
	})

	It("renders Yes/No for legacy resources", func() {
		Expect(StatusActive.WireYesNo()).To(Equal("Yes"))
		Expect(StatusInactive.WireYesNo()).To(Equal("No"))
	})
})
