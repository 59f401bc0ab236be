package strace

import (
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ParserCfg struct {
	// Workers caps the parse fan-out; zero or below means one per CPU.
	Workers int
}

// Parser turns a whole trace buffer into per-pid record lists.
//
// Lines are independent, so parsing fans out over a worker pool and joins
// once; each worker writes only its own slots. Lines that fail to parse are
// dropped silently.
type Parser struct {
	logger *zap.SugaredLogger
	cfg    *ParserCfg
}

func NewParser(logger *zap.SugaredLogger, cfg *ParserCfg) *Parser {
	if cfg == nil {
		cfg = &ParserCfg{}
	}

	if cfg.Workers < 1 {
		cfg.Workers = runtime.NumCPU()
	}

	return &Parser{
		logger: logger,
		cfg:    cfg,
	}
}

// Parse splits buffer into lines, parses every line independently, and
// groups the surviving records by pid. Records sharing a pid keep the order
// their lines had in the buffer.
func (p *Parser) Parse(buffer string) map[Pid][]*Record {
	lines := strings.Split(buffer, "\n")
	records := make([]*Record, len(lines))

	var group errgroup.Group

	chunk := (len(lines) + p.cfg.Workers - 1) / p.cfg.Workers
	for start := 0; start < len(lines); start += chunk {
		start := start
		end := min(start+chunk, len(lines))

		group.Go(func() error {
			for i := start; i < end; i++ {
				record, err := ParseLine(lines[i])
				if err != nil {
					continue
				}

				records[i] = record
			}

			return nil
		})
	}

	// workers never return an error; an unparseable line just leaves a nil slot
	_ = group.Wait()

	byPid := groupByPid(records)

	p.logger.Debugw("parsed trace buffer", "lines", len(lines), "pids", len(byPid))

	return byPid
}

func groupByPid(records []*Record) map[Pid][]*Record {
	byPid := make(map[Pid][]*Record)

	for _, record := range records {
		if record == nil {
			continue
		}

		byPid[record.Pid] = append(byPid[record.Pid], record)
	}

	return byPid
}
