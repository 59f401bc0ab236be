package strace

// SyscallData accumulates the raw samples one process produced for a single
// syscall name.
type SyscallData struct {
	// Timings holds elapsed-time samples in seconds, in input order.
	Timings []float64 `json:"timings"`
	// Errors counts occurrences per errno name.
	Errors map[string]int `json:"errors"`
}

func newSyscallData() *SyscallData {
	return &SyscallData{
		Errors: make(map[string]int),
	}
}

// PidData is everything aggregated for one process: per-syscall samples, the
// set of files it opened, and the pids of processes it spawned.
type PidData struct {
	Syscalls  map[string]*SyscallData
	Files     map[string]struct{}
	ChildPids []Pid
}

func newPidData() *PidData {
	return &PidData{
		Syscalls: make(map[string]*SyscallData),
		Files:    make(map[string]struct{}),
	}
}

// Aggregate folds grouped records into per-pid summaries. It only ever
// appends and increments; nothing is removed or overwritten, and records for
// one pid never touch another pid's summary.
func Aggregate(byPid map[Pid][]*Record) map[Pid]*PidData {
	summaries := make(map[Pid]*PidData, len(byPid))

	for pid, records := range byPid {
		data := newPidData()
		summaries[pid] = data

		for _, record := range records {
			syscall, ok := data.Syscalls[record.Syscall]
			if !ok {
				syscall = newSyscallData()
				data.Syscalls[record.Syscall] = syscall
			}

			if record.HasElapsed {
				syscall.Timings = append(syscall.Timings, record.Elapsed)
			}

			if record.Error != "" {
				syscall.Errors[record.Error]++
			}

			if record.File != "" {
				data.Files[record.File] = struct{}{}
			}

			if record.HasChild {
				data.ChildPids = append(data.ChildPids, record.ChildPid)
			}
		}
	}

	return summaries
}
