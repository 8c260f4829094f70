package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/quarrydata/quarry/api/v1"
	"github.com/quarrydata/quarry/internal/catalog"
	"github.com/quarrydata/quarry/internal/handlers"
	"github.com/quarrydata/quarry/internal/services"
	"github.com/quarrydata/quarry/internal/store"
	"github.com/quarrydata/quarry/pkg/semantics"
)

var _ = Describe("Query handlers", func() {
	var (
		db     *sql.DB
		router *gin.Engine
	)

	BeforeEach(func() {
		ctx := context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		s := store.NewStore(db)
		Expect(s.History().Migrate(ctx)).To(Succeed())

		_, err = s.DB().ExecContext(ctx, `
			CREATE TABLE orders (id INTEGER, status VARCHAR, amount DOUBLE)
		`)
		Expect(err).NotTo(HaveOccurred())

		_, err = s.DB().ExecContext(ctx, `
			INSERT INTO orders VALUES (1, 'paid', 10.0), (2, 'pending', 5.0)
		`)
		Expect(err).NotTo(HaveOccurred())

		cat := catalog.New(s.Dataset())
		err = cat.Register(ctx, catalog.ModelSpec{
			Name:  "orders",
			Table: "orders",
			Dimensions: map[string]semantics.Dimension{
				"status": {Column: "status"},
			},
			Metrics: map[string]semantics.Metric{
				"revenue": {Agg: "sum(amount)"},
			},
			Filters: map[string]semantics.Filter{
				"status": {Column: "status", Operators: []semantics.Operator{semantics.OpEq}},
			},
			Sortable: []string{"status"},
		})
		Expect(err).NotTo(HaveOccurred())

		handler := handlers.New(services.NewQueryService(cat, s))

		router = gin.New()
		handler.Register(router.Group("/api/v1"))
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	post := func(path string, body any) *httptest.ResponseRecorder {
		payload, err := json.Marshal(body)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	Context("GET /models", func() {
		It("should list registered models with their fields", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/models", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp v1.ModelListResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Models).To(HaveLen(1))
			Expect(resp.Models[0].Name).To(Equal("orders"))
			Expect(resp.Models[0].Dimensions).To(Equal([]string{"status"}))
			Expect(resp.Models[0].Metrics).To(Equal([]string{"revenue"}))
			Expect(resp.Models[0].Filters).To(HaveKey("status"))
		})
	})

	Context("POST /models/:name/query", func() {
		It("should execute the request and return rows", func() {
			rec := post("/api/v1/models/orders/query", v1.QueryRequest{
				Dimensions: []string{"status"},
				Metrics:    []string{"revenue"},
				OrderBy:    []v1.SortParam{{Field: "status"}},
			})

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp v1.QueryResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Model).To(Equal("orders"))
			Expect(resp.Columns).To(Equal([]string{"status", "revenue"}))
			Expect(resp.Rows).To(HaveLen(2))
		})

		It("should return 404 for unknown models", func() {
			rec := post("/api/v1/models/nope/query", v1.QueryRequest{})
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 400 for a disallowed operator", func() {
			rec := post("/api/v1/models/orders/query", v1.QueryRequest{
				Filters: map[string]map[string]any{
					"status": {"gt": 1},
				},
			})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("not allowed"))
		})

		It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/models/orders/query", bytes.NewReader([]byte("{")))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 for an invalid where expression", func() {
			rec := post("/api/v1/models/orders/query", v1.QueryRequest{
				Where: "secret = 'x'",
			})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("unknown identifier"))
		})
	})

	Context("POST /models/:name/explain", func() {
		It("should return the compiled SQL without executing", func() {
			rec := post("/api/v1/models/orders/explain", v1.QueryRequest{
				Metrics: []string{"revenue"},
				Filters: map[string]map[string]any{
					"status": {"eq": "paid"},
				},
			})

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp v1.ExplainResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.SQL).To(ContainSubstring("WHERE status = ?"))
			Expect(resp.Args).To(Equal([]any{"paid"}))
		})
	})

	Context("GET /history", func() {
		It("should list executed queries", func() {
			rec := post("/api/v1/models/orders/query", v1.QueryRequest{Metrics: []string{"revenue"}})
			Expect(rec.Code).To(Equal(http.StatusOK))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
			hist := httptest.NewRecorder()
			router.ServeHTTP(hist, req)

			Expect(hist.Code).To(Equal(http.StatusOK))
			Expect(hist.Body.String()).To(ContainSubstring("orders"))
		})
	})
})
