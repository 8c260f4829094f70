package filterexpr

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parser", func() {
	Context("Valid expressions", func() {
		type testCase struct {
			input  string
			output string
		}

		tests := []testCase{
			// ===== SIMPLE EQUALITY =====
			{input: "name = 'test'", output: `(name equal "test")`},
			{input: "name != 'test'", output: `(name notEqual "test")`},
			{input: `name = "test"`, output: `(name equal "test")`},

			// ===== COMPARISON OPERATORS =====
			{input: "count > 10", output: `(count greater 10)`},
			{input: "count >= 10", output: `(count gte 10)`},
			{input: "count < 10", output: `(count less 10)`},
			{input: "count <= 10.5", output: `(count lte 10.5)`},

			// ===== REGEX OPERATORS =====
			{input: "name ~ /pattern/", output: "(name match /pattern/)"},
			{input: "name !~ /pattern/", output: "(name notMatch /pattern/)"},
			{input: "name ~ /^prod-.*/", output: "(name match /^prod-.*/)"},
			{input: "name ~ /a\\/b/", output: "(name match /a/b/)"},

			// ===== BOOLEAN VALUES =====
			{input: "enabled = true", output: "(enabled equal true)"},
			{input: "enabled = false", output: "(enabled equal false)"},
			{input: "enabled = TRUE", output: "(enabled equal true)"},
			{input: "enabled = False", output: "(enabled equal false)"},

			// ===== LOGICAL OPERATORS =====
			{input: "a = 'x' and b = 'y'", output: `((a equal "x") and (b equal "y"))`},
			{input: "a = 'x' or b = 'y'", output: `((a equal "x") or (b equal "y"))`},
			{input: "a = 'x' and b = 'y' or c = 'z'", output: `(((a equal "x") and (b equal "y")) or (c equal "z"))`},
			{input: "a = 'x' and (b = 'y' or c = 'z')", output: `((a equal "x") and ((b equal "y") or (c equal "z")))`},

			// ===== DOTTED IDENTIFIERS =====
			{input: "meta.env = 'prod'", output: `(meta.env equal "prod")`},
		}

		for _, test := range tests {
			test := test
			It("should parse: "+test.input, func() {
				expr, err := Parse([]byte(test.input))
				Expect(err).ToNot(HaveOccurred())
				Expect(expr.String()).To(Equal(test.output))
			})
		}
	})

	Context("Invalid expressions", func() {
		type testCase struct {
			input   string
			message string
		}

		tests := []testCase{
			{input: "", message: "expected identifier"},
			{input: "name", message: "expected operator"},
			{input: "name =", message: "expected value"},
			{input: "name = 'a' and", message: "expected identifier"},
			{input: "(name = 'a'", message: "expected rbracket"},
			{input: "name = ''", message: "empty string"},
			{input: "name = 'unclosed", message: "unclosed string"},
			{input: "name ~ /unclosed", message: "unclosed regex"},
			{input: "name ~ /(/", message: "invalid regex"},
			{input: "name ? 'a'", message: "unexpected char"},
		}

		for _, test := range tests {
			test := test
			It("should return ParseError for: "+test.input, func() {
				_, err := Parse([]byte(test.input))
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring(test.message))
			})
		}

		It("should carry the source position", func() {
			_, err := Parse([]byte("name ="))
			pe, ok := err.(ParseError)
			Expect(ok).To(BeTrue())
			Expect(pe.Position).To(BeNumerically(">", 0))
		})
	})
})
