package export

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("Export", func() {
	var opts Options
	rows := []Row{
		{"name": "Pune City PS", "pincode": float64(411001)},
		{"name": "Shivajinagar PS", "pincode": float64(411005)},
	}

	BeforeEach(func() {
		opts = Options{
			Columns: []Column{
				{Header: "Station Name", Key: "name"},
				{Header: "Pincode", Key: "pincode"},
			},
			Meta: Meta{
				Title:       "Police Stations",
				TotalCount:  21,
				SearchTerm:  "pune",
				Role:        "admin",
				GeneratedAt: time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
			},
			ShowSerialNumber: true,
		}
	})

	Describe("Cell rendering", func() {
		It("prepends a 1-based serial column", func() {
			Expect(opts.headers()).To(Equal([]string{"Sr. No.", "Station Name", "Pincode"}))
			Expect(opts.cells(0, rows[0])[0]).To(Equal("1"))
			Expect(opts.cells(1, rows[1])[0]).To(Equal("2"))
		})

		It("prints whole JSON numbers without a decimal tail", func() {
			Expect(opts.cells(0, rows[0])).To(ContainElement("411001"))
		})

		It("applies a custom formatter", func() {
			opts.Columns[1].Formatter = func(v any) string { return "PIN" }
			Expect(opts.cells(0, rows[0])).To(ContainElement("PIN"))
		})

		It("renders missing values as empty cells", func() {
			Expect(opts.cells(0, Row{"name": "X"})).To(Equal([]string{"1", "X", ""}))
		})

		It("omits the search line when no term is set", func() {
			opts.Meta.SearchTerm = ""
			for _, l := range opts.metaLines() {
				Expect(l).ToNot(HavePrefix("Search:"))
			}
		})
	})

	Describe("Excel", func() {
		It("writes the metadata block, header row and body", func() {
			b, err := Excel(opts, rows)
			Expect(err).ToNot(HaveOccurred())

			f, err := excelize.OpenReader(bytes.NewReader(b))
			Expect(err).ToNot(HaveOccurred())
			defer f.Close()

			title, _ := f.GetCellValue(sheet, "A1")
			Expect(title).To(Equal("Police Stations"))
			total, _ := f.GetCellValue(sheet, "A2")
			Expect(total).To(Equal("Total Records: 21"))
			search, _ := f.GetCellValue(sheet, "A3")
			Expect(search).To(Equal("Search: pune"))

			// Title + 4 meta lines + spacer put the header on row 7.
			h1, _ := f.GetCellValue(sheet, "A7")
			Expect(h1).To(Equal("Sr. No."))
			h2, _ := f.GetCellValue(sheet, "B7")
			Expect(h2).To(Equal("Station Name"))
			b2, _ := f.GetCellValue(sheet, "B8")
			Expect(b2).To(Equal("Pune City PS"))
			c9, _ := f.GetCellValue(sheet, "C9")
			Expect(c9).To(Equal("411005"))
		})
	})

	Describe("PDF", func() {
		It("produces a well-formed document", func() {
			b, err := PDF(opts, rows)
			Expect(err).ToNot(HaveOccurred())
			Expect(bytes.HasPrefix(b, []byte("%PDF"))).To(BeTrue())
			Expect(len(b)).To(BeNumerically(">", 500))
		})

		It("handles an empty row set", func() {
			b, err := PDF(opts, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(bytes.HasPrefix(b, []byte("%PDF"))).To(BeTrue())
		})
	})
})
