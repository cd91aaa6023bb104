package pipeline

import "time"

// ProgressReporter receives pipeline milestones. Implementations must
// tolerate concurrent OnEndpointDocumented calls arriving from the merge
// loop in completion order.
type ProgressReporter interface {
	OnScanStart()
	OnScanComplete(sourceFiles, apiFiles int)
	OnDocumentationStart(totalEndpoints int)
	OnEndpointDocumented(method, route string)
	OnComplete(endpoints int, elapsed time.Duration)
}

// noopProgress is used when no reporter is supplied.
type noopProgress struct{}

func (noopProgress) OnScanStart()                                    {}
func (noopProgress) OnScanComplete(sourceFiles, apiFiles int)        {}
func (noopProgress) OnDocumentationStart(totalEndpoints int)         {}
func (noopProgress) OnEndpointDocumented(method, route string)       {}
func (noopProgress) OnComplete(endpoints int, elapsed time.Duration) {}
