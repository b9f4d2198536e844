package combin_test

import (
	"fmt"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
	. "github.com/renproject/shamirvote/combin"
)

var _ = Describe("Combinations", func() {
	collect := func(n, k int) [][]int {
		var subsets [][]int
		it := New(n, k)
		for it.Next() {
			subsets = append(subsets, it.Copy())
		}
		return subsets
	}

	It("should enumerate 2-subsets of 4 in lexicographic order", func() {
		Expect(collect(4, 2)).To(Equal([][]int{
			{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
		}))
	})

	DescribeTable("subset counts",
		func(n, k int) {
			subsets := collect(n, k)
			Expect(int64(len(subsets))).To(Equal(Count(n, k).Int64()))

			seen := map[string]bool{}
			for _, s := range subsets {
				Expect(s).To(HaveLen(k))
				for i := 1; i < len(s); i++ {
					Expect(s[i]).To(BeNumerically(">", s[i-1]))
				}
				for _, j := range s {
					Expect(j).To(BeNumerically(">=", 0))
					Expect(j).To(BeNumerically("<", n))
				}
				key := fmt.Sprint(s)
				Expect(seen[key]).To(BeFalse())
				seen[key] = true
			}

			for i := 1; i < len(subsets); i++ {
				Expect(Less(subsets[i-1], subsets[i])).To(BeTrue())
			}
		},
		Entry("n = k", 5, 5),
		Entry("k = 1", 6, 1),
		Entry("k = 0", 3, 0),
		Entry("middle", 10, 4),
		Entry("wide", 12, 6),
	)

	It("should produce nothing when k > n", func() {
		it := New(3, 4)
		Expect(it.Next()).To(BeFalse())
		Expect(Count(3, 4).Sign()).To(Equal(0))
	})

	It("should produce nothing for negative k", func() {
		Expect(New(3, -1).Next()).To(BeFalse())
		Expect(Count(3, -1).Sign()).To(Equal(0))
	})

	It("should stay exhausted", func() {
		it := New(2, 2)
		Expect(it.Next()).To(BeTrue())
		Expect(it.Next()).To(BeFalse())
		Expect(it.Next()).To(BeFalse())
	})

	It("should count large binomials exactly", func() {
		Expect(Count(60, 30).String()).To(Equal("118264581564861424"))
	})

	It("should order subsets lexicographically", func() {
		Expect(Less([]int{0, 2}, []int{1, 2})).To(BeTrue())
		Expect(Less([]int{1, 2}, []int{0, 2})).To(BeFalse())
		Expect(Less([]int{0, 1}, []int{0, 1})).To(BeFalse())
		Expect(Less([]int{0}, []int{0, 1})).To(BeTrue())
	})
})
