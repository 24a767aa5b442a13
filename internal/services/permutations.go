package services

import "iter"

// Permutations yields every ordering of 0..n-1 in lexicographic order.
// The yielded slice is reused; copy it to keep it past the next iteration.
// Each range over the returned sequence starts again from the identity.
func Permutations(n int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		perm := make([]int, n)
		for i := range perm {
			perm[i] = i
		}
		permuteSuffix(perm, 0, yield)
	}
}

// permutationsWithPrefix yields, in lexicographic order, the orderings of
// 0..n-1 that start with first.
func permutationsWithPrefix(n, first int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		perm := make([]int, 0, n)
		perm = append(perm, first)
		for i := 0; i < n; i++ {
			if i != first {
				perm = append(perm, i)
			}
		}
		permuteSuffix(perm, 1, yield)
	}
}

// permuteSuffix yields perm, then steps perm[from:] through its
// lexicographic successors until it wraps around. perm[from:] must start
// sorted ascending.
func permuteSuffix(perm []int, from int, yield func([]int) bool) {
	if !yield(perm) {
		return
	}
	for nextPermutation(perm[from:]) {
		if !yield(perm) {
			return
		}
	}
}

// nextPermutation rearranges p into its lexicographic successor and
// reports false when p was already the last ordering.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}

	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]

	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}
	return true
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}
