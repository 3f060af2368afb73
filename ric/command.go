package ric

import "fmt"

// Command is the tagged-union interface implemented by every directive
// variant the RIC can address to an endpoint. Commands are immutable once
// constructed.
type Command interface {
	// Target is the E2NodeID the command is addressed to.
	Target() E2NodeID
	fmt.Stringer
	isCommand()
}

type commandBase struct {
	TargetID E2NodeID
}

func (c commandBase) Target() E2NodeID { return c.TargetID }
func (commandBase) isCommand()         {}

// BaseCommand is an intentional no-op on receipt: it exists so that a
// terminator which does not recognize any more specific variant still has
// something well-defined to silently drop.
type BaseCommand struct {
	commandBase
}

func NewBaseCommand(target E2NodeID) BaseCommand {
	return BaseCommand{commandBase: commandBase{TargetID: target}}
}

func (c BaseCommand) String() string {
	return fmt.Sprintf("BaseCommand{target=%d}", c.TargetID)
}

// Lte2LteHandoverCommand instructs the addressed eNB to hand its UE with
// the given RNTI over to the target cell.
type Lte2LteHandoverCommand struct {
	commandBase
	TargetCellID uint32
	TargetRNTI   uint32
}

func NewLte2LteHandoverCommand(target E2NodeID, targetCellID, targetRNTI uint32) Lte2LteHandoverCommand {
	return Lte2LteHandoverCommand{
		commandBase:  commandBase{TargetID: target},
		TargetCellID: targetCellID,
		TargetRNTI:   targetRNTI,
	}
}

func (c Lte2LteHandoverCommand) String() string {
	return fmt.Sprintf("Lte2LteHandoverCommand{target=%d, cell=%d, rnti=%d}",
		c.TargetID, c.TargetCellID, c.TargetRNTI)
}
