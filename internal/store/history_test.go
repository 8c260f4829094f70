package store_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quarrydata/quarry/internal/models"
	"github.com/quarrydata/quarry/internal/store"
)

var _ = Describe("HistoryStore", func() {
	var (
		ctx context.Context
		db  *sql.DB
		s   *store.Store
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		s = store.NewStore(db)

		err = s.History().Migrate(ctx)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("Migrate", func() {
		It("should be idempotent", func() {
			Expect(s.History().Migrate(ctx)).To(Succeed())
		})
	})

	Context("Record", func() {
		It("should generate an id when none is given", func() {
			id, err := s.History().Record(ctx, models.QueryRecord{
				Model:      "orders",
				SQL:        "SELECT 1",
				DurationMs: 3,
				RowCount:   1,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(id).NotTo(BeEmpty())
		})

		It("should keep an explicit id", func() {
			id, err := s.History().Record(ctx, models.QueryRecord{
				ID:    "fixed-id",
				Model: "orders",
				SQL:   "SELECT 1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("fixed-id"))
		})
	})

	Context("Recent", func() {
		It("should return records newest first", func() {
			base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

			_, err := s.History().Record(ctx, models.QueryRecord{
				Model: "orders", SQL: "SELECT 1", ExecutedAt: base,
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = s.History().Record(ctx, models.QueryRecord{
				Model: "shipments", SQL: "SELECT 2", ExecutedAt: base.Add(time.Minute),
			})
			Expect(err).NotTo(HaveOccurred())

			records, err := s.History().Recent(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].Model).To(Equal("shipments"))
			Expect(records[1].Model).To(Equal("orders"))
		})

		It("should honor the requested window", func() {
			for i := 0; i < 5; i++ {
				_, err := s.History().Record(ctx, models.QueryRecord{Model: "orders", SQL: "SELECT 1"})
				Expect(err).NotTo(HaveOccurred())
			}

			records, err := s.History().Recent(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(3))
		})

		It("should return nothing on an empty table", func() {
			records, err := s.History().Recent(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
		})
	})
})
