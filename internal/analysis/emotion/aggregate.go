package emotion

// Aggregate 对多组得分按标签取最大值，不做平均。标签顺序为首次出现
// 顺序。
func Aggregate(sets []Scores) Scores {
	var out Scores
	index := make(map[string]int)

	for _, set := range sets {
		for _, sc := range set {
			if i, ok := index[sc.Label]; ok {
				if sc.Value > out[i].Value {
					out[i].Value = sc.Value
				}
				continue
			}
			index[sc.Label] = len(out)
			out = append(out, sc)
		}
	}

	return out
}
