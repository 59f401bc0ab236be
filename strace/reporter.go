package strace

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Summary is the serialized form of a PidData, with the file set flattened
// to a sorted list so output is stable run to run.
type Summary struct {
	Syscalls  map[string]*SyscallData `json:"syscalls"`
	Files     []string                `json:"files"`
	ChildPids []Pid                   `json:"child_pids"`
}

// WriteSummaries marshals every pid's summary as JSON to w.
func WriteSummaries(w io.Writer, summaries map[Pid]*PidData) error {
	out := make(map[Pid]*Summary, len(summaries))

	for pid, data := range summaries {
		files := make([]string, 0, len(data.Files))
		for f := range data.Files {
			files = append(files, f)
		}
		slices.Sort(files)

		out[pid] = &Summary{
			Syscalls:  data.Syscalls,
			Files:     files,
			ChildPids: data.ChildPids,
		}
	}

	bts, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshall summaries: %w", err)
	}

	if _, err := w.Write(bts); err != nil {
		return fmt.Errorf("failed to write summaries: %w", err)
	}

	return nil
}
