package semantics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quarrydata/quarry/pkg/semantics"
)

var _ = Describe("Builder", func() {
	var model *semantics.Model

	BeforeEach(func() {
		model = newOrdersModel()
	})

	It("should accumulate the same request as the literal form", func() {
		built := model.Build().
			Dimensions("status").
			Metrics("revenue").
			Filter("amount", semantics.OpGt, 10).
			Where("region = 'emea'").
			OrderBy("revenue", true).
			Limit(50).
			Page(2).
			Request()

		Expect(built).To(Equal(semantics.Request{
			Dimensions: []string{"status"},
			Metrics:    []string{"revenue"},
			Filters: map[string]map[semantics.Operator]any{
				"amount": {semantics.OpGt: 10},
			},
			Where:   "region = 'emea'",
			OrderBy: []semantics.SortParam{{Field: "revenue", Desc: true}},
			Limit:   intp(50),
			Page:    intp(2),
		}))
	})

	It("should compile to the same SQL as the literal request", func() {
		fromBuilder, builderArgs, err := model.Build().
			Dimensions("status").
			Metrics("revenue").
			Filter("status", semantics.OpIn, []string{"paid", "shipped"}).
			Sort("revenue", semantics.Descending).
			ToSQL()
		Expect(err).ToNot(HaveOccurred())

		fromRequest, requestArgs, err := model.ToSQL(semantics.Request{
			Dimensions: []string{"status"},
			Metrics:    []string{"revenue"},
			Filters: map[string]map[semantics.Operator]any{
				"status": {semantics.OpIn: []string{"paid", "shipped"}},
			},
			Sort: &semantics.Sort{Field: "revenue", Direction: semantics.Descending},
		})
		Expect(err).ToNot(HaveOccurred())

		Expect(fromBuilder).To(Equal(fromRequest))
		Expect(builderArgs).To(Equal(requestArgs))
	})

	It("should treat a nil filter value as a no-op", func() {
		req := model.Build().
			Metrics("revenue").
			Filter("status", semantics.OpEq, nil).
			Request()

		Expect(req.Filters).To(BeNil())
	})

	It("should merge repeated filter calls per operator", func() {
		req := model.Build().
			Filter("amount", semantics.OpGte, 10).
			Filter("amount", semantics.OpLte, 100).
			Request()

		Expect(req.Filters["amount"]).To(HaveLen(2))
	})

	It("should compile parts from the accumulated request", func() {
		parts, err := model.Build().
			Dimensions("status").
			Metrics("revenue").
			Parts()
		Expect(err).ToNot(HaveOccurred())

		sql, _, err := parts.GroupBy.ToSql()
		Expect(err).ToNot(HaveOccurred())
		Expect(sql).To(Equal("GROUP BY status"))
	})

	It("should surface compile errors on terminal calls", func() {
		_, _, err := model.Build().
			OrderBy("note", false).
			ToSQL()
		Expect(err).To(HaveOccurred())
		Expect(semantics.IsUnsortableFieldError(err)).To(BeTrue())
	})
})
