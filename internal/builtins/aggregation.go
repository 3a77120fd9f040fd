package builtins

import (
	"fmt"
	"math"
	"sort"

	"dsq/internal/value"
)

// elementsOf flattens array/series/frame(as rows) to a []value.Value,
// the uniform iteration surface requires ("MUST behave
// identically... regardless of whether they arrive as an array of
// values or as a series").
func elementsOf(v value.Value) ([]value.Value, error) {
	switch v.Kind() {
	case value.KindArray:
		return v.AsArray(), nil
	case value.KindSeries:
		s := v.AsSeries()
		out := make([]value.Value, s.Len())
		for i := 0; i < s.Len(); i++ {
			out[i] = s.Get(i)
		}
		return out, nil
	case value.KindFrame:
		return v.AsFrame().Rows(), nil
	default:
		return nil, &value.KindError{Op: "aggregation", Kind: v.TypeName()}
	}
}

func numbersOf(v value.Value) ([]float64, error) {
	elems, err := elementsOf(v)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(elems))
	for _, e := range elems {
		f, ok := value.ToFloat64(e)
		if !ok {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func registerAggregation() {
	registerFn("add", 1, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		if len(elems) == 0 {
			return value.Null, nil
		}
		acc := elems[0]
		for _, e := range elems[1:] {
			acc, err = value.Add(acc, e)
			if err != nil {
				return value.Null, err
			}
		}
		return acc, nil
	})
	registerFn("sum", 1, func(args []value.Value) (value.Value, error) {
		nums, err := numbersOf(args[0])
		if err != nil {
			return value.Null, err
		}
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return value.Float(total), nil
	})
	registerFn("min", 1, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		if len(elems) == 0 {
			return value.Null, nil
		}
		best := elems[0]
		for _, e := range elems[1:] {
			if value.Less(e, best) {
				best = e
			}
		}
		return best, nil
	})
	registerFn("max", 1, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		if len(elems) == 0 {
			return value.Null, nil
		}
		best := elems[0]
		for _, e := range elems[1:] {
			if value.Less(best, e) {
				best = e
			}
		}
		return best, nil
	})
	meanFn := func(args []value.Value) (value.Value, error) {
		nums, err := numbersOf(args[0])
		if err != nil {
			return value.Null, err
		}
		if len(nums) == 0 {
			return value.Null, nil
		}
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return value.Float(total / float64(len(nums))), nil
	}
	registerFn("mean", 1, meanFn)
	registerFn("avg", 1, meanFn)
	registerFn("median", 1, func(args []value.Value) (value.Value, error) {
		nums, err := numbersOf(args[0])
		if err != nil {
			return value.Null, err
		}
		if len(nums) == 0 {
			return value.Null, nil
		}
		return value.Float(percentile(nums, 50)), nil
	})
	registerFn("std", 1, func(args []value.Value) (value.Value, error) {
		return stddev(args[0], false)
	})
	registerFn("stdev_s", 1, func(args []value.Value) (value.Value, error) {
		return stddev(args[0], true)
	})
	registerFn("var", 1, func(args []value.Value) (value.Value, error) {
		nums, err := numbersOf(args[0])
		if err != nil {
			return value.Null, err
		}
		v, ok := variance(nums, true)
		if !ok {
			return value.Null, nil
		}
		return value.Float(v), nil
	})
	registerFn("quartile", 2, func(args []value.Value) (value.Value, error) {
		nums, err := numbersOf(args[0])
		if err != nil {
			return value.Null, err
		}
		if len(nums) == 0 {
			return value.Null, nil
		}
		q := args[1].AsInt()
		if q < 1 || q > 3 {
			return value.Null, fmt.Errorf("quartile: q must be 1, 2, or 3")
		}
		return value.Float(percentile(nums, float64(q)*25)), nil
	})
	registerFnRange("histogram", 1, 2, func(args []value.Value) (value.Value, error) {
		nums, err := numbersOf(args[0])
		if err != nil {
			return value.Null, err
		}
		bins := int64(10)
		if len(args) == 2 {
			bins = args[1].AsInt()
		}
		return histogram(nums, int(bins)), nil
	})
	registerFn("count", 1, func(args []value.Value) (value.Value, error) {
		return value.Int(int64(args[0].Length())), nil
	})
	registerFn("count_if", 2, func(args []value.Value) (value.Value, error) {
		values, mask := args[0], args[1]
		maskElems, err := elementsOf(mask)
		if err != nil {
			return value.Null, err
		}
		n := 0
		for _, m := range maskElems {
			if m.IsTruthy() {
				n++
			}
		}
		_ = values
		return value.Int(int64(n)), nil
	})
	registerFn("avg_if", 2, func(args []value.Value) (value.Value, error) {
		return avgIf(args[0], args[1])
	})
	registerFnRange("avg_ifs", 2, -1, func(args []value.Value) (value.Value, error) {
		values := args[0]
		masks := args[1:]
		valElems, err := elementsOf(values)
		if err != nil {
			return value.Null, err
		}
		maskLists := make([][]value.Value, len(masks))
		for i, m := range masks {
			maskLists[i], err = elementsOf(m)
			if err != nil {
				return value.Null, err
			}
		}
		total, n := 0.0, 0
		for i, v := range valElems {
			keep := true
			for _, ml := range maskLists {
				if i >= len(ml) || !ml[i].IsTruthy() {
					keep = false
					break
				}
			}
			if !keep {
				continue
			}
			f, ok := value.ToFloat64(v)
			if !ok {
				continue
			}
			total += f
			n++
		}
		if n == 0 {
			return value.Null, nil
		}
		return value.Float(total / float64(n)), nil
	})
	registerFn("correl", 2, func(args []value.Value) (value.Value, error) {
		a, err := numbersOf(args[0])
		if err != nil {
			return value.Null, err
		}
		b, err := numbersOf(args[1])
		if err != nil {
			return value.Null, err
		}
		c, ok := correlation(a, b)
		if !ok {
			return value.Null, nil
		}
		return value.Float(c), nil
	})
	registerFn("most_frequent", 1, func(args []value.Value) (value.Value, error) {
		return frequencyExtreme(args[0], true)
	})
	registerFn("least_frequent", 1, func(args []value.Value) (value.Value, error) {
		return frequencyExtreme(args[0], false)
	})
}

func avgIf(values, mask value.Value) (value.Value, error) {
	valElems, err := elementsOf(values)
	if err != nil {
		return value.Null, err
	}
	maskElems, err := elementsOf(mask)
	if err != nil {
		return value.Null, err
	}
	total, n := 0.0, 0
	for i, v := range valElems {
		if i >= len(maskElems) || !maskElems[i].IsTruthy() {
			continue
		}
		f, ok := value.ToFloat64(v)
		if !ok {
			continue
		}
		total += f
		n++
	}
	if n == 0 {
		return value.Null, nil
	}
	return value.Float(total / float64(n)), nil
}

func percentile(sorted []float64, p float64) float64 {
	nums := append([]float64(nil), sorted...)
	sort.Float64s(nums)
	if len(nums) == 1 {
		return nums[0]
	}
	rank := p / 100 * float64(len(nums)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return nums[lo]
	}
	frac := rank - float64(lo)
	return nums[lo]*(1-frac) + nums[hi]*frac
}

func variance(nums []float64, sample bool) (float64, bool) {
	n := len(nums)
	if n == 0 || (sample && n < 2) {
		return 0, false
	}
	mean := 0.0
	for _, x := range nums {
		mean += x
	}
	mean /= float64(n)
	sq := 0.0
	for _, x := range nums {
		d := x - mean
		sq += d * d
	}
	denom := float64(n)
	if sample {
		denom = float64(n - 1)
	}
	return sq / denom, true
}

func stddev(v value.Value, sample bool) (value.Value, error) {
	nums, err := numbersOf(v)
	if err != nil {
		return value.Null, err
	}
	variance, ok := variance(nums, sample)
	if !ok {
		return value.Null, nil
	}
	return value.Float(math.Sqrt(variance)), nil
}

func correlation(a, b []float64) (float64, bool) {
	n := len(a)
	if n == 0 || n != len(b) {
		return 0, false
	}
	var sumA, sumB, sumAB, sumA2, sumB2 float64
	for i := 0; i < n; i++ {
		sumA += a[i]
		sumB += b[i]
		sumAB += a[i] * b[i]
		sumA2 += a[i] * a[i]
		sumB2 += b[i] * b[i]
	}
	num := float64(n)*sumAB - sumA*sumB
	den := math.Sqrt((float64(n)*sumA2 - sumA*sumA) * (float64(n)*sumB2 - sumB*sumB))
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

func histogram(nums []float64, bins int) value.Value {
	obj := value.NewObject()
	if bins <= 0 || len(nums) == 0 {
		obj.Set("counts", value.Array(nil))
		obj.Set("bins", value.Array(nil))
		return value.Object(obj)
	}
	lo, hi := nums[0], nums[0]
	for _, n := range nums {
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	width := (hi - lo) / float64(bins)
	if width == 0 {
		width = 1
	}
	counts := make([]int64, bins)
	for _, n := range nums {
		idx := int((n - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}
	edges := make([]value.Value, bins+1)
	for i := 0; i <= bins; i++ {
		edges[i] = value.Float(lo + float64(i)*width)
	}
	countVals := make([]value.Value, bins)
	for i, c := range counts {
		countVals[i] = value.Int(c)
	}
	obj.Set("counts", value.Array(countVals))
	obj.Set("bins", value.Array(edges))
	return value.Object(obj)
}

func frequencyExtreme(v value.Value, mostFrequent bool) (value.Value, error) {
	elems, err := elementsOf(v)
	if err != nil {
		return value.Null, err
	}
	if len(elems) == 0 {
		return value.Null, nil
	}
	type bucket struct {
		val   value.Value
		count int
	}
	var buckets []bucket
	for _, e := range elems {
		found := false
		for i := range buckets {
			if value.Equals(buckets[i].val, e) {
				buckets[i].count++
				found = true
				break
			}
		}
		if !found {
			buckets = append(buckets, bucket{val: e, count: 1})
		}
	}
	best := buckets[0]
	for _, b := range buckets[1:] {
		if (mostFrequent && b.count > best.count) || (!mostFrequent && b.count < best.count) {
			best = b
		}
	}
	return best.val, nil
}
