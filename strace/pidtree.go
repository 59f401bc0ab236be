package strace

// Descendants returns root followed by every pid it transitively spawned,
// in breadth-first order. Children that never produced a parsed line of
// their own are still reported; a pid is visited at most once.
func Descendants(root Pid, summaries map[Pid]*PidData) []Pid {
	seen := map[Pid]struct{}{root: {}}
	pids := []Pid{root}

	for i := 0; i < len(pids); i++ {
		data, ok := summaries[pids[i]]
		if !ok {
			continue
		}

		for _, child := range data.ChildPids {
			if _, done := seen[child]; done {
				continue
			}

			seen[child] = struct{}{}
			pids = append(pids, child)
		}
	}

	return pids
}
