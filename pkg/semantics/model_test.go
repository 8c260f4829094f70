package semantics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quarrydata/quarry/pkg/semantics"
)

var _ = Describe("Model", func() {
	var model *semantics.Model

	BeforeEach(func() {
		model = newOrdersModel()
	})

	Context("New", func() {
		It("should reject a filter referencing an unknown column", func() {
			cfg := ordersConfig()
			cfg.Filters["bad"] = semantics.Filter{Column: "nope", Operators: []semantics.Operator{semantics.OpEq}}

			_, err := semantics.New(cfg)
			Expect(err).To(HaveOccurred())
			Expect(semantics.IsDefinitionError(err)).To(BeTrue())
		})

		It("should expose declared names sorted", func() {
			Expect(model.DimensionNames()).To(Equal([]string{"day", "ghost", "region", "status"}))
			Expect(model.MetricNames()).To(Equal([]string{"orders", "revenue"}))
		})
	})

	Context("select list", func() {
		It("should compile dimensions and metrics with grouping", func() {
			sql, args, err := model.ToSQL(semantics.Request{
				Dimensions: []string{"status"},
				Metrics:    []string{"revenue"},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(sql).To(Equal("SELECT status AS status, sum(amount) AS revenue FROM orders GROUP BY status LIMIT 100"))
			Expect(args).To(BeEmpty())
		})

		It("should honor declared aliases", func() {
			sql, _, err := model.ToSQL(semantics.Request{Metrics: []string{"orders"}})
			Expect(err).ToNot(HaveOccurred())
			Expect(sql).To(ContainSubstring("count(*) AS order_count"))
		})

		It("should select every declared field when the request names none", func() {
			sql, _, err := model.ToSQL(semantics.Request{})
			Expect(err).ToNot(HaveOccurred())
			Expect(sql).To(Equal("SELECT date_trunc('day', created_at) AS day, region AS region, " +
				"status AS status, count(*) AS order_count, sum(amount) AS revenue " +
				"FROM orders LIMIT 100"))
		})

		It("should skip inert declarations", func() {
			sql, _, err := model.ToSQL(semantics.Request{
				Dimensions: []string{"ghost", "status"},
				Metrics:    []string{"revenue"},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(sql).To(Equal("SELECT status AS status, sum(amount) AS revenue FROM orders GROUP BY status LIMIT 100"))
		})

		It("should compile expression dimensions", func() {
			sql, _, err := model.ToSQL(semantics.Request{Dimensions: []string{"day"}, Metrics: []string{"orders"}})
			Expect(err).ToNot(HaveOccurred())
			Expect(sql).To(Equal("SELECT date_trunc('day', created_at) AS day, count(*) AS order_count " +
				"FROM orders GROUP BY date_trunc('day', created_at) LIMIT 100"))
		})
	})

	Context("unknown names", func() {
		It("should drop unknown names silently by default", func() {
			sql, _, err := model.ToSQL(semantics.Request{
				Dimensions: []string{"nope", "status"},
				Metrics:    []string{"revenue"},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(sql).To(Equal("SELECT status AS status, sum(amount) AS revenue FROM orders GROUP BY status LIMIT 100"))
		})

		It("should reject unknown names in strict mode", func() {
			cfg := ordersConfig()
			cfg.Strict = true
			strict, err := semantics.New(cfg)
			Expect(err).ToNot(HaveOccurred())

			_, _, err = strict.ToSQL(semantics.Request{Dimensions: []string{"nope"}})
			Expect(err).To(HaveOccurred())
			Expect(semantics.IsUnknownFieldError(err)).To(BeTrue())
			Expect(semantics.IsValidationError(err)).To(BeTrue())
		})

		It("should keep requested dimension names out of the statement", func() {
			sql, _, err := model.ToSQL(semantics.Request{
				Dimensions: []string{"status; DROP TABLE orders--"},
				Metrics:    []string{"revenue"},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(sql).ToNot(ContainSubstring("DROP"))
		})
	})

	Context("group by", func() {
		It("should fall back to the model default when the request has no dimensions", func() {
			cfg := ordersConfig()
			cfg.Defaults.GroupBy = []string{"region"}
			m, err := semantics.New(cfg)
			Expect(err).ToNot(HaveOccurred())

			sql, _, err := m.ToSQL(semantics.Request{Metrics: []string{"revenue"}})
			Expect(err).ToNot(HaveOccurred())
			Expect(sql).To(ContainSubstring("GROUP BY region"))
		})

		It("should pass undeclared default group-by names through as raw identifiers", func() {
			cfg := ordersConfig()
			cfg.Defaults.GroupBy = []string{"warehouse_id"}
			m, err := semantics.New(cfg)
			Expect(err).ToNot(HaveOccurred())

			sql, _, err := m.ToSQL(semantics.Request{Metrics: []string{"revenue"}})
			Expect(err).ToNot(HaveOccurred())
			Expect(sql).To(ContainSubstring("GROUP BY warehouse_id"))
		})
	})

	Context("name collisions", func() {
		It("should resolve order-by through the metric when a dimension shares its name", func() {
			m, err := semantics.New(semantics.Config{
				Table: ordersTable(),
				Dimensions: map[string]semantics.Dimension{
					"total": {Column: "amount"},
				},
				Metrics: map[string]semantics.Metric{
					"total": {Agg: "sum(amount)"},
				},
				Sortable: []string{"total"},
			})
			Expect(err).ToNot(HaveOccurred())

			sql, _, err := m.ToSQL(semantics.Request{
				Metrics: []string{"total"},
				OrderBy: []semantics.SortParam{{Field: "total", Desc: true}},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(sql).To(ContainSubstring("ORDER BY sum(amount) DESC"))
		})
	})

	Context("idempotence", func() {
		It("should compile the same request to identical SQL every time", func() {
			req := semantics.Request{
				Dimensions: []string{"status", "region"},
				Metrics:    []string{"revenue", "orders"},
				Filters: map[string]map[semantics.Operator]any{
					"status": {semantics.OpIn: []string{"paid", "shipped"}},
					"amount": {semantics.OpGt: 10, semantics.OpLte: 500},
				},
				Where:   "region = 'emea' or region = 'apac'",
				OrderBy: []semantics.SortParam{{Field: "revenue", Desc: true}},
				Limit:   intp(25),
				Page:    intp(3),
			}

			first, firstArgs, err := model.ToSQL(req)
			Expect(err).ToNot(HaveOccurred())

			for i := 0; i < 5; i++ {
				sql, args, err := model.ToSQL(req)
				Expect(err).ToNot(HaveOccurred())
				Expect(sql).To(Equal(first))
				Expect(args).To(Equal(firstArgs))
			}
		})
	})

	Context("FilterHints", func() {
		It("should report a hint for every declared filter", func() {
			hints := model.FilterHints()
			Expect(hints).To(HaveLen(3))
			Expect(hints["status"]).To(Equal(semantics.HintText))
			Expect(hints["amount"]).To(Equal(semantics.HintNumber))
		})
	})
})
