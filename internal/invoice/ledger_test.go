package invoice

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltLedger", func() {
	var (
		tmpDir     string
		ledgerPath string
		ledger     *BoltLedger
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		ledgerPath = filepath.Join(tmpDir, "test.db")
		var err error
		ledger, err = NewBoltLedger(ledgerPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if ledger != nil {
			ledger.Close()
		}
	})

	Describe("SaveDocument", func() {
		var (
			doc *Document
			err error
		)

		BeforeEach(func() {
			doc = &Document{
				Path:      "/invoices/2024/receipt.pdf",
				Records:   3,
				Date:      "12/05/2024",
				ParsedAt:  time.Date(2024, 5, 12, 15, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2024, 5, 12, 15, 0, 0, 0, time.UTC),
			}
		})

		JustBeforeEach(func() {
			err = ledger.SaveDocument(doc)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the document to the ledger", func() {
				saved, getErr := ledger.GetDocument("/invoices/2024/receipt.pdf")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Records).To(Equal(3))
				Expect(saved.Date).To(Equal("12/05/2024"))
			})
		})

		When("saving the same path twice", func() {
			JustBeforeEach(func() {
				doc.Records = 5
				Expect(ledger.SaveDocument(doc)).NotTo(HaveOccurred())
			})

			It("should overwrite the entry", func() {
				saved, getErr := ledger.GetDocument("/invoices/2024/receipt.pdf")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Records).To(Equal(5))
			})
		})
	})

	Describe("GetDocument", func() {
		When("the document does not exist", func() {
			It("returns the error", func() {
				_, err := ledger.GetDocument("/nope.pdf")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("document not found"))
			})
		})
	})

	Describe("ListDocuments", func() {
		When("the ledger is empty", func() {
			It("should return an empty slice", func() {
				documents, err := ledger.ListDocuments()
				Expect(err).NotTo(HaveOccurred())
				Expect(documents).To(BeEmpty())
			})
		})

		When("the ledger has entries", func() {
			BeforeEach(func() {
				for _, path := range []string{"/a.pdf", "/b.pdf"} {
					Expect(ledger.SaveDocument(&Document{Path: path})).NotTo(HaveOccurred())
				}
			})

			It("should return all entries", func() {
				documents, err := ledger.ListDocuments()
				Expect(err).NotTo(HaveOccurred())
				Expect(documents).To(HaveLen(2))
			})
		})
	})
})
