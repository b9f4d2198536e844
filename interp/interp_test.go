package interp_test

import (
	"math/big"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/renproject/shamirvote/combin"
	"github.com/renproject/shamirvote/field"
	"github.com/renproject/shamirvote/params"
	"github.com/renproject/shamirvote/share"
	"github.com/renproject/shamirvote/share/shareutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	. "github.com/renproject/shamirvote/interp"
)

var _ = Describe("Interpolation", func() {
	r := rand.New(rand.NewSource(int64(time.Now().Nanosecond())))
	trials := 20

	small, err := field.New(big.NewInt(257))
	if err != nil {
		panic(err)
	}
	large, err := field.New(params.ReferencePrime())
	if err != nil {
		panic(err)
	}

	Context("known sharings", func() {
		It("should recover the secret of a line over a small field", func() {
			// f(x) = 42 + 5x
			shares := share.Shares{
				share.New(1, big.NewInt(47)),
				share.New(2, big.NewInt(52)),
			}
			secret, err := Interpolate(shares, small)
			Expect(err).ToNot(HaveOccurred())
			Expect(secret.Int64()).To(Equal(int64(42)))
		})

		It("should recover the secret when values wrap around the modulus", func() {
			// f(x) = 200 + 100x mod 257
			shares := share.Shares{
				share.New(1, big.NewInt(43)),
				share.New(3, big.NewInt(243)),
			}
			secret, err := Interpolate(shares, small)
			Expect(err).ToNot(HaveOccurred())
			Expect(secret.Int64()).To(Equal(int64(200)))
		})

		It("should return y for a single share", func() {
			for i := 0; i < trials; i++ {
				y := shareutil.RandomElement(r, large)
				secret, err := Interpolate(share.Shares{share.New(r.Uint32()%1000+1, y)}, large)
				Expect(err).ToNot(HaveOccurred())
				Expect(secret.Cmp(y)).To(Equal(0))
			}
		})
	})

	Context("random sharings", func() {
		It("should recover the secret from any k shares", func() {
			for i := 0; i < trials; i++ {
				n := r.Intn(6) + 1
				k := r.Intn(n) + 1
				secret := shareutil.RandomElement(r, large)
				shares := shareutil.Deal(r, large, secret, k, shareutil.RandomXs(r, n, 1<<20))

				it := combin.New(n, k)
				for it.Next() {
					got, err := Interpolate(shares.Select(it.Indices()), large)
					Expect(err).ToNot(HaveOccurred())
					Expect(got.Cmp(secret)).To(Equal(0))
				}
			}
		})

		It("should not depend on the order of the shares", func() {
			for i := 0; i < trials; i++ {
				k := r.Intn(8) + 1
				shares := shareutil.Deal(r, large, shareutil.RandomElement(r, large), k, shareutil.RandomXs(r, k, 1<<20))
				// Corrupt one share so that the result is not simply the
				// dealt secret.
				shares = shareutil.TamperRandom(r, large, shares, []int{r.Intn(k)})

				expected, err := Interpolate(shares, large)
				Expect(err).ToNot(HaveOccurred())
				for j := 0; j < 5; j++ {
					got, err := Interpolate(shareutil.Shuffle(r, shares), large)
					Expect(err).ToNot(HaveOccurred())
					Expect(got.Cmp(expected)).To(Equal(0))
				}
			}
		})

		It("should not modify the shares", func() {
			shares := shareutil.Deal(r, large, big.NewInt(7), 3, shareutil.SequentialXs(3))
			cloned := shares.Clone()
			_, err := Interpolate(shares, large)
			Expect(err).ToNot(HaveOccurred())
			for i := range shares {
				Expect(shares[i].Eq(cloned[i])).To(BeTrue())
			}
		})
	})

	Context("invalid input", func() {
		It("should fail without shares", func() {
			_, err := Interpolate(nil, small)
			Expect(err).To(Equal(ErrNoShares))
		})

		It("should fail with a distinct error for duplicate x", func() {
			shares := share.Shares{
				share.New(1, big.NewInt(47)),
				share.New(2, big.NewInt(52)),
				share.New(1, big.NewInt(48)),
			}
			_, err := Interpolate(shares, small)
			Expect(errors.Is(err, ErrDuplicateX)).To(BeTrue())
			Expect(errors.Is(err, field.ErrUndefinedInverse)).To(BeTrue())
		})

		It("should fail for x coordinates that collide modulo p", func() {
			shares := share.Shares{
				share.New(1, big.NewInt(47)),
				share.New(258, big.NewInt(52)),
			}
			_, err := Interpolate(shares, small)
			Expect(errors.Is(err, ErrDuplicateX)).To(BeTrue())
		})

		It("should fail for values outside the field", func() {
			for _, y := range []*big.Int{nil, big.NewInt(-1), big.NewInt(257)} {
				shares := share.Shares{share.New(1, big.NewInt(1)), {X: 2, Y: y}}
				_, err := Interpolate(shares, small)
				Expect(errors.Is(err, ErrOutOfField)).To(BeTrue())
			}
		})
	})

	Context("interpolators", func() {
		n, err := field.New(params.Secp256k1N())
		if err != nil {
			panic(err)
		}

		It("should pick the secp256k1 fast path only for the group order", func() {
			Expect(For(n)).To(Equal(Secp256k1{}))
			Expect(For(large)).To(Equal(Lagrange{Field: large}))
			Expect(For(small)).To(Equal(Lagrange{Field: small}))
		})

		It("should agree with Lagrange over the secp256k1 group order", func() {
			lagrange := Lagrange{Field: n}
			fast := For(n)
			for i := 0; i < trials; i++ {
				k := r.Intn(8) + 1
				secret := shareutil.RandomElement(r, n)
				shares := shareutil.Deal(r, n, secret, k, shareutil.RandomXs(r, k, 1<<20))

				expected, err := lagrange.Interpolate(shares)
				Expect(err).ToNot(HaveOccurred())
				Expect(expected.Cmp(secret)).To(Equal(0))

				got, err := fast.Interpolate(shares)
				Expect(err).ToNot(HaveOccurred())
				Expect(got.Cmp(expected)).To(Equal(0))

				tampered := shareutil.TamperRandom(r, n, shares, []int{r.Intn(k)})
				expected, err = lagrange.Interpolate(tampered)
				Expect(err).ToNot(HaveOccurred())
				got, err = fast.Interpolate(tampered)
				Expect(err).ToNot(HaveOccurred())
				Expect(got.Cmp(expected)).To(Equal(0))
			}
		})

		It("should reject duplicate x on the fast path", func() {
			shares := share.Shares{share.New(3, big.NewInt(1)), share.New(3, big.NewInt(2))}
			_, err := Secp256k1{}.Interpolate(shares)
			Expect(errors.Is(err, ErrDuplicateX)).To(BeTrue())
		})

		It("should reject empty input on the fast path", func() {
			_, err := Secp256k1{}.Interpolate(share.Shares{})
			Expect(err).To(Equal(ErrNoShares))
		})
	})
})
