package strace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrLineInvalid = errors.New("trace line invalid")

// Pid identifies the traced process or thread that issued a syscall.
type Pid int32

// CallStatus says whether a line describes a syscall invocation or the
// continuation of one the tracer split across two lines.
type CallStatus int

const (
	CallStarted CallStatus = iota
	CallResumed
)

// timeLayout matches the timestamp strace prints with -tt.
const timeLayout = "15:04:05.000000"

// Record is one syscall event lifted out of a single trace line.
//
// A started line and its later resumed counterpart become two independent
// Records; the parser keeps no state across lines.
type Record struct {
	Pid     Pid
	Time    time.Time
	Syscall string
	Status  CallStatus

	// Elapsed is the <seconds> annotation; valid only when HasElapsed.
	Elapsed    float64
	HasElapsed bool

	// File is set only for the file-opening calls, empty otherwise.
	File string

	// Error holds the named errno token (e.g. EAGAIN), empty on success.
	Error string

	// ChildPid is the pid a clone returned; valid only when HasChild.
	ChildPid Pid
	HasChild bool
}

// ParseLine converts one line of -f -T -tt strace output into a Record.
//
// Every malformed line fails with ErrLineInvalid; callers are expected to
// drop such lines and move on.
func ParseLine(line string) (*Record, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 5 {
		return nil, fmt.Errorf("%w: want at least 5 fields, got %d", ErrLineInvalid, len(tokens))
	}

	status := CallStarted
	if strings.HasPrefix(tokens[2], "<") {
		status = CallResumed
	}

	var name, file string

	switch status {
	case CallResumed:
		// the syscall name sits inside the "<... name resumed>" marker
		name = tokens[3]
	case CallStarted:
		invoked, args, ok := strings.Cut(tokens[2], "(")
		if !ok {
			return nil, fmt.Errorf("%w: malformed invocation %q", ErrLineInvalid, tokens[2])
		}

		name = invoked

		// open carries its path in the invocation token; openat's path is
		// the next token along. Both are quoted and comma-terminated, so
		// strip one leading and two trailing characters.
		switch name {
		case "open":
			file = trimFileArg(args)
		case "openat":
			file = trimFileArg(tokens[3])
		}
	}

	var (
		elapsed    float64
		hasElapsed bool
	)

	if last := tokens[len(tokens)-1]; strings.HasPrefix(last, "<") {
		body := last[1:]
		if len(body) > 0 {
			body = body[:len(body)-1]
		}

		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad elapsed annotation %q", ErrLineInvalid, last)
		}

		elapsed, hasElapsed = f, true
	}

	var (
		errCode  string
		childPid Pid
		hasChild bool
	)

	if eq := lastEqualsToken(tokens); eq >= 0 {
		if name == "clone" && eq+1 < len(tokens) {
			n, err := strconv.ParseInt(tokens[eq+1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: bad clone child pid %q", ErrLineInvalid, tokens[eq+1])
			}

			childPid, hasChild = Pid(n), true
		}

		for _, tok := range tokens[eq+1:] {
			if strings.HasPrefix(tok, "E") {
				errCode = tok
				break
			}
		}
	}

	n, err := strconv.ParseInt(tokens[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad pid %q", ErrLineInvalid, tokens[0])
	}

	ts, err := time.Parse(timeLayout, tokens[1])
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp %q", ErrLineInvalid, tokens[1])
	}

	return &Record{
		Pid:        Pid(n),
		Time:       ts,
		Syscall:    name,
		Status:     status,
		Elapsed:    elapsed,
		HasElapsed: hasElapsed,
		File:       file,
		Error:      errCode,
		ChildPid:   childPid,
		HasChild:   hasChild,
	}, nil
}

// trimFileArg strips the leading quote and the trailing quote-plus-comma
// (or quote-plus-paren) from a path token. The fixed offsets match strace's
// quoting; a token with unexpected trailing punctuation comes out mangled.
func trimFileArg(tok string) string {
	if len(tok) < 3 {
		return ""
	}

	return tok[1 : len(tok)-2]
}

func lastEqualsToken(tokens []string) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i] == "=" {
			return i
		}
	}

	return -1
}
