package bench

// product returns the Cartesian product of lists, one combination per
// output entry, each a slice carrying one element per input list in
// order (itertools.product). An empty lists argument yields one empty
// combination; any empty inner list yields no combinations at all.
func product(lists [][]int) [][]int {
	combos := [][]int{{}}
	for _, list := range lists {
		var next [][]int
		for _, combo := range combos {
			for _, v := range list {
				entry := append(append([]int(nil), combo...), v)
				next = append(next, entry)
			}
		}
		combos = next
	}
	return combos
}
