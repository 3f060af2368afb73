package ric

import (
	"fmt"
	"time"
)

// Report is the tagged-union interface implemented by every telemetry
// variant an endpoint can send. Reports are immutable once constructed.
type Report interface {
	// ReporterID is the E2NodeID of the endpoint that produced the report.
	ReporterID() E2NodeID
	// Timestamp is the simulated/wall-clock time the report was generated.
	Timestamp() time.Time
	fmt.Stringer
	isReport()
}

type reportBase struct {
	Reporter E2NodeID
	At       time.Time
}

func (r reportBase) ReporterID() E2NodeID { return r.Reporter }
func (r reportBase) Timestamp() time.Time { return r.At }
func (reportBase) isReport()              {}

// LocationReport carries a position sample for a node of any kind.
type LocationReport struct {
	reportBase
	X, Y, Z float64
}

func NewLocationReport(reporter E2NodeID, at time.Time, x, y, z float64) LocationReport {
	return LocationReport{reportBase: reportBase{Reporter: reporter, At: at}, X: x, Y: y, Z: z}
}

func (r LocationReport) String() string {
	return fmt.Sprintf("LocationReport{node=%d, pos=(%.3f,%.3f,%.3f), t=%s}",
		r.Reporter, r.X, r.Y, r.Z, r.At.Format(time.RFC3339Nano))
}

// LteUeCellInfoReport carries the current cell attachment of an LTE UE.
type LteUeCellInfoReport struct {
	reportBase
	CellID uint32
	RNTI   uint32
}

func NewLteUeCellInfoReport(reporter E2NodeID, at time.Time, cellID, rnti uint32) LteUeCellInfoReport {
	return LteUeCellInfoReport{reportBase: reportBase{Reporter: reporter, At: at}, CellID: cellID, RNTI: rnti}
}

func (r LteUeCellInfoReport) String() string {
	return fmt.Sprintf("LteUeCellInfoReport{node=%d, cell=%d, rnti=%d, t=%s}",
		r.Reporter, r.CellID, r.RNTI, r.At.Format(time.RFC3339Nano))
}

// LteUeRsrpRsrqReport carries one signal-quality sample for an LTE UE.
type LteUeRsrpRsrqReport struct {
	reportBase
	CellID    uint32
	RNTI      uint32
	RSRP      float64
	RSRQ      float64
	IsServing bool
	CarrierID uint32
}

func NewLteUeRsrpRsrqReport(reporter E2NodeID, at time.Time, cellID, rnti uint32, rsrp, rsrq float64, isServing bool, carrierID uint32) LteUeRsrpRsrqReport {
	return LteUeRsrpRsrqReport{
		reportBase: reportBase{Reporter: reporter, At: at},
		CellID:     cellID, RNTI: rnti, RSRP: rsrp, RSRQ: rsrq,
		IsServing: isServing, CarrierID: carrierID,
	}
}

func (r LteUeRsrpRsrqReport) String() string {
	return fmt.Sprintf("LteUeRsrpRsrqReport{node=%d, cell=%d, rnti=%d, rsrp=%.2f, rsrq=%.2f, serving=%t, t=%s}",
		r.Reporter, r.CellID, r.RNTI, r.RSRP, r.RSRQ, r.IsServing, r.At.Format(time.RFC3339Nano))
}

// AppLossReport carries an application packet-loss sample in [0,1].
type AppLossReport struct {
	reportBase
	Loss float64
}

func NewAppLossReport(reporter E2NodeID, at time.Time, loss float64) AppLossReport {
	return AppLossReport{reportBase: reportBase{Reporter: reporter, At: at}, Loss: loss}
}

func (r AppLossReport) String() string {
	return fmt.Sprintf("AppLossReport{node=%d, loss=%.4f, t=%s}", r.Reporter, r.Loss, r.At.Format(time.RFC3339Nano))
}
