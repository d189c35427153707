package ncc

// Stage is one phase of the sliding-window recurrence. Every axis pass
// walks the stages in order, each for a fixed number of steps.
//
//	Prime   O[0] += I             window grows, nothing emitted yet
//	LeadIn  O[k]  = O[k-1] + I    left edge still clipped at 0
//	Slide   O[k]  = O[k-1] + I - B
//	Tail    O[k]  = O[k-1] + I - B  input no longer needs buffering
//	Hold    O[k]  = O[k-1]        short extents: window covers everything
//	Finish  O[k]  = O[k-1] - B    right edge clipped at n
//
// I is the newest input, B the input leaving the window on the left.
type Stage int

const (
	StagePrime Stage = iota
	StageLeadIn
	StageSlide
	StageTail
	StageHold
	StageFinish
	numStages
)

var stageNames = [numStages]string{"prime", "lead-in", "slide", "tail", "hold", "finish"}

func (s Stage) String() string {
	if s < 0 || s >= numStages {
		return "unknown"
	}
	return stageNames[s]
}

// stagePlan holds the number of steps spent in each stage.
type stagePlan [numStages]int

// planStages lays out the recurrence for n inputs and radius r. The
// first four stages consume one input each step; the first of them to
// emit is the final Prime step, after which every step emits one output,
// so the plan always yields exactly n outputs.
//
// For n > 3r+2 this is Prime r+1, LeadIn r, Slide n-3r-2, Tail r+1,
// Finish r.
func planStages(n, r int) stagePlan {
	var p stagePlan
	if n <= 0 {
		return p
	}
	p[StagePrime] = min(r+1, n)
	p[StageLeadIn] = min(r, n-p[StagePrime])
	slide := n - p[StagePrime] - p[StageLeadIn]
	p[StageTail] = min(r+1, slide)
	p[StageSlide] = slide - p[StageTail]

	// outputs still owed once the input is exhausted
	left := p[StagePrime] - 1
	// those whose window has not yet dropped input 0
	p[StageHold] = max(0, min(n-1, r)-(n-left)+1)
	p[StageFinish] = left - p[StageHold]
	return p
}

// inputs returns the number of steps that consume an input.
func (p stagePlan) inputs() int {
	return p[StagePrime] + p[StageLeadIn] + p[StageSlide] + p[StageTail]
}

// outputs returns the number of windows the plan emits.
func (p stagePlan) outputs() int {
	if p[StagePrime] == 0 {
		return 0
	}
	return 1 + p[StageLeadIn] + p[StageSlide] + p[StageTail] + p[StageHold] + p[StageFinish]
}
