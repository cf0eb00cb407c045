package invoice

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("WriteCSV", func() {
	var (
		records []Record
		buf     *bytes.Buffer
		err     error
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	JustBeforeEach(func() {
		err = WriteCSV(buf, records)
	})

	When("writing records", func() {
		BeforeEach(func() {
			records = []Record{
				{
					Name:    "CHISTORRA REFLETS",
					PriceKg: "0.35kg x 12.50€/kg",
					QtyUnit: "1 x 4.70",
					Amount:  "4.70",
					Date:    "12/05/2024",
				},
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should write the fixed column header", func() {
			Expect(buf.String()).To(HavePrefix("name,type,price-kg,QTE x P.U,amount,date\n"))
		})

		It("should write one row per record", func() {
			Expect(buf.String()).To(ContainSubstring(
				"CHISTORRA REFLETS,,0.35kg x 12.50€/kg,1 x 4.70,4.70,12/05/2024\n"))
		})
	})

	When("there are no records", func() {
		BeforeEach(func() {
			records = []Record{}
		})

		It("should still write the header", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(Equal("name,type,price-kg,QTE x P.U,amount,date\n"))
		})
	})
})
