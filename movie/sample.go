package movie

// Sample returns k distinct elements of items chosen uniformly at random
// using a partial Fisher-Yates shuffle over a copy. When k >= len(items)
// every element is returned in shuffled order. intN must return a value in
// [0, n).
func Sample[T any](items []T, k int, intN func(n int) int) []T {
	n := len(items)
	if k > n {
		k = n
	}
	if k <= 0 {
		return []T{}
	}

	pool := make([]T, n)
	copy(pool, items)
	for i := 0; i < k; i++ {
		j := i + intN(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
