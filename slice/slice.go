package slice

func Map[T any, U any](input []T, pred func(T) U) []U {
	result := make([]U, len(input))
	for i, v := range input {
		result[i] = pred(v)
	}
	return result
}

// Scan returns the running fold of input, result[i] = fn(result[i-1], input[i]).
func Scan[T any, U any](input []T, initial U, fn func(U, T) U) []U {
	result := make([]U, len(input))
	acc := initial
	for i, v := range input {
		acc = fn(acc, v)
		result[i] = acc
	}
	return result
}
