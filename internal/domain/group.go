package domain

// GroupBy partitions records by key. Groups appear in the order their key is
// first seen and records keep input order within a group. Each group's heat
// samples and red-record count are computed here, once.
func GroupBy(records []ClassifiedRecord, key GroupKey) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, r := range records {
		name := key.value(r)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}

		g := &groups[i]
		g.Records = append(g.Records, r)
		g.HeatSamples = append(g.HeatSamples, HeatSample{Lat: r.Lat, Lon: r.Lon, Weight: r.HeatWeight})
		if r.Severity == SeverityRed {
			g.HighSeverityCount++
		}
	}
	return groups
}
