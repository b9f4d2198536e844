package input_test

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/renproject/shamirvote/params"
	"github.com/renproject/shamirvote/share"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
	. "github.com/renproject/shamirvote/input"
)

var _ = Describe("Input", func() {
	decode := func(doc string) (Problem, error) {
		return Decode(strings.NewReader(doc), Options{})
	}

	Context("when decoding the reference layout", func() {
		It("should decode object shares in input order", func() {
			p, err := decode(`{
				"n": 4,
				"k": 2,
				"prime": "257",
				"shares": [
					{"x": 1, "y": "47"},
					{"x": 2, "y": "52"},
					{"x": 3, "y": "58"},
					{"x": 4, "y": "62"}
				]
			}`)
			Expect(err).ToNot(HaveOccurred())
			Expect(p.N).To(Equal(4))
			Expect(p.K).To(Equal(2))
			Expect(p.Field.Prime()).To(Equal(big.NewInt(257)))
			Expect(p.Shares).To(Equal(share.Shares{
				share.New(1, big.NewInt(47)),
				share.New(2, big.NewInt(52)),
				share.New(3, big.NewInt(58)),
				share.New(4, big.NewInt(62)),
			}))
		})

		It("should decode pair shares and bare numbers", func() {
			p, err := decode(`{"k": 1, "prime": 257, "shares": [[5, "9"], [2, 9]]}`)
			Expect(err).ToNot(HaveOccurred())
			Expect(p.N).To(Equal(2))
			Expect(p.Shares).To(Equal(share.Shares{
				share.New(5, big.NewInt(9)),
				share.New(2, big.NewInt(9)),
			}))
		})

		It("should decode large primes and values", func() {
			prime := params.ReferencePrimeString
			y := new(big.Int).Sub(params.ReferencePrime(), big.NewInt(1))
			p, err := decode(`{"k": 1, "prime": "` + prime + `", "shares": [{"x": 1, "y": "` + y.String() + `"}]}`)
			Expect(err).ToNot(HaveOccurred())
			Expect(p.Field.Prime()).To(Equal(params.ReferencePrime()))
			Expect(p.Shares[0].Y).To(Equal(y))
		})

		It("should fall back to the default prime", func() {
			doc := `{"k": 1, "shares": [{"x": 1, "y": "3"}]}`
			_, err := decode(doc)
			Expect(errors.Is(err, ErrMalformed)).To(BeTrue())

			p, err := Decode(strings.NewReader(doc), Options{DefaultPrime: big.NewInt(7)})
			Expect(err).ToNot(HaveOccurred())
			Expect(p.Field.Prime()).To(Equal(big.NewInt(7)))
		})

		It("should accept an empty share list", func() {
			p, err := decode(`{"k": 2, "prime": "257", "shares": []}`)
			Expect(err).ToNot(HaveOccurred())
			Expect(p.Shares).To(BeEmpty())
		})
	})

	Context("when decoding the keyed layout", func() {
		It("should decode values in their bases and sort by x", func() {
			p, err := Decode(strings.NewReader(`{
				"keys": {"n": 3, "k": 2},
				"3": {"base": "16", "value": "3a"},
				"1": {"base": "10", "value": "47"},
				"2": {"base": "2", "value": "110100"}
			}`), Options{DefaultPrime: big.NewInt(257)})
			Expect(err).ToNot(HaveOccurred())
			Expect(p.N).To(Equal(3))
			Expect(p.K).To(Equal(2))
			Expect(p.Shares).To(Equal(share.Shares{
				share.New(1, big.NewInt(47)),
				share.New(2, big.NewInt(52)),
				share.New(3, big.NewInt(58)),
			}))
		})

		It("should reduce values modulo the prime", func() {
			p, err := decode(`{
				"keys": {"n": 1, "k": 1},
				"prime": "257",
				"1": {"base": "10", "value": "300"}
			}`)
			Expect(err).ToNot(HaveOccurred())
			Expect(p.Shares[0].Y).To(Equal(big.NewInt(43)))
		})

		It("should reject bad bases and negative values", func() {
			opts := Options{DefaultPrime: big.NewInt(257)}
			for _, doc := range []string{
				`{"keys": {"k": 1}, "1": {"base": "1", "value": "0"}}`,
				`{"keys": {"k": 1}, "1": {"base": "37", "value": "0"}}`,
				`{"keys": {"k": 1}, "1": {"base": "10", "value": "-4"}}`,
				`{"keys": {"k": 1}, "1": {"base": "2", "value": "12"}}`,
				`{"keys": {"k": 1}, "a": {"base": "10", "value": "1"}}`,
				`{"keys": {"n": 2, "k": 1}, "1": {"base": "10", "value": "1"}}`,
			} {
				_, err := Decode(strings.NewReader(doc), opts)
				Expect(errors.Is(err, ErrMalformed)).To(BeTrue(), doc)
			}
		})
	})

	DescribeTable("malformed documents",
		func(doc string) {
			_, err := decode(doc)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrMalformed)).To(BeTrue())
		},
		Entry("not json", `{"k": 2,`),
		Entry("missing k", `{"prime": "257", "shares": []}`),
		Entry("missing shares", `{"k": 2, "prime": "257"}`),
		Entry("missing prime", `{"k": 2, "shares": []}`),
		Entry("bad prime", `{"k": 2, "prime": "1", "shares": []}`),
		Entry("n mismatch", `{"n": 3, "k": 2, "prime": "257", "shares": [{"x": 1, "y": "1"}]}`),
		Entry("zero x", `{"k": 1, "prime": "257", "shares": [{"x": 0, "y": "1"}]}`),
		Entry("negative x", `{"k": 1, "prime": "257", "shares": [{"x": -1, "y": "1"}]}`),
		Entry("x too large", `{"k": 1, "prime": "257", "shares": [{"x": 4294967296, "y": "1"}]}`),
		Entry("missing y", `{"k": 1, "prime": "257", "shares": [{"x": 1}]}`),
		Entry("unparsable y", `{"k": 1, "prime": "257", "shares": [{"x": 1, "y": "abc"}]}`),
		Entry("negative y", `{"k": 1, "prime": "257", "shares": [{"x": 1, "y": "-1"}]}`),
		Entry("y equal to prime", `{"k": 1, "prime": "257", "shares": [{"x": 1, "y": "257"}]}`),
		Entry("short pair", `{"k": 1, "prime": "257", "shares": [[1]]}`),
		Entry("share of wrong kind", `{"k": 1, "prime": "257", "shares": ["1:2"]}`),
	)

	Context("when loading files", func() {
		var dir string

		BeforeEach(func() {
			var err error
			dir, err = os.MkdirTemp("", "shamirvote")
			Expect(err).ToNot(HaveOccurred())
		})

		AfterEach(func() {
			Expect(os.RemoveAll(dir)).To(Succeed())
		})

		It("should decode the file contents", func() {
			path := filepath.Join(dir, "shares.json")
			Expect(os.WriteFile(path, []byte(`{"k": 1, "prime": "257", "shares": [[1, "2"]]}`), 0o600)).To(Succeed())

			p, err := Load(path, Options{})
			Expect(err).ToNot(HaveOccurred())
			Expect(p.Shares).To(Equal(share.Shares{share.New(1, big.NewInt(2))}))
		})

		It("should return an error for missing files", func() {
			_, err := Load(filepath.Join(dir, "missing.json"), Options{})
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		})
	})
})
