package trigger

import "github.com/oran-ric/near-rt-ric/ric"

// Noop never forces an early cycle. Grounded on oran-query-trigger-noop.h.
type Noop struct{}

func (Noop) ShouldQueryLms(ric.Report) bool { return false }
