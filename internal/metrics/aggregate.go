package metrics

// Aggregate rolls per-file metrics up to min/mean/max per metric key,
// computed over the files where that key has a present value. A key with no
// present values yields three absent aggregates; an empty file list yields
// all aggregates absent. Pure and deterministic.
func Aggregate(files []FileMetrics) map[string]*float64 {
	agg := make(map[string]*float64, 3*len(Keys))
	for _, key := range Keys {
		var values []float64
		for _, f := range files {
			if f == nil {
				continue
			}
			if v := f[key]; v != nil {
				values = append(values, *v)
			}
		}

		if len(values) == 0 {
			agg["min_"+key] = nil
			agg["avg_"+key] = nil
			agg["max_"+key] = nil
			continue
		}

		minV, maxV, sum := values[0], values[0], 0.0
		for _, v := range values {
			sum += v
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
		agg["min_"+key] = Ptr(minV)
		agg["avg_"+key] = Ptr(sum / float64(len(values)))
		agg["max_"+key] = Ptr(maxV)
	}
	return agg
}
