package pipeline

// Statistics summarizes a pipeline's performance over its lifetime.
type Statistics struct {
	Cycles               uint64
	InstructionsCompleted uint64
	StallsInserted        uint64
	BranchesTaken         uint64
}

// CPI returns cycles per completed instruction, or 0 if nothing has
// completed yet.
func (s Statistics) CPI() float64 {
	if s.InstructionsCompleted == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.InstructionsCompleted)
}

// Stats returns a snapshot of the pipeline's counters.
func (p *Pipeline) Stats() Statistics {
	return Statistics{
		Cycles:                p.cycles,
		InstructionsCompleted: p.instructionsDone,
		StallsInserted:        p.stallsInserted,
		BranchesTaken:         p.branchesTaken,
	}
}

// CycleSnapshot captures the four latches at the end of one cycle, for
// diagnostics and demo tracing when WithHistory is enabled.
type CycleSnapshot struct {
	Cycle uint64
	IFID  IFIDLatch
	IDEX  IDEXLatch
	EXMEM EXMEMLatch
	MEMWB MEMWBLatch
}

// History returns every snapshot recorded since construction, in
// cycle order. It is empty unless the pipeline was built with
// WithHistory.
func (p *Pipeline) History() []CycleSnapshot {
	return p.history
}

func (p *Pipeline) snapshot() CycleSnapshot {
	return CycleSnapshot{
		Cycle: p.cycles,
		IFID:  p.ifid,
		IDEX:  p.idex,
		EXMEM: p.exmem,
		MEMWB: p.memwb,
	}
}
