package domain

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Statuses lists every valid invoice status.
var Statuses = []Status{StatusDraft, StatusPending, StatusPaid}

// transitions is the closed table of allowed status changes.
// Paid invoices represent settled financial fact: there is no exit from
// paid except Invoice.ForceStatus, which bypasses this table.
var transitions = map[Status]map[Status]bool{
	StatusDraft: {
		StatusPending: true,
		StatusPaid:    true, // direct settlement
	},
	StatusPending: {
		StatusPaid:  true,
		StatusDraft: true, // reopen
	},
	StatusPaid: {},
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the table allows moving from s to the
// given status.
func (s Status) CanTransitionTo(to Status) bool {
	return transitions[s][to]
}

// CheckTransition validates a status change against the transition table.
// An illegal request returns an ELIFECYCLE error naming the from/to pair;
// it is never a silent no-op.
func CheckTransition(from, to Status) error {
	const op = "invoice.transition"

	if !from.Valid() {
		return Errorf(EINVALID, op, "unknown status %q", from)
	}
	if !to.Valid() {
		return Errorf(EINVALID, op, "unknown status %q", to)
	}
	if !from.CanTransitionTo(to) {
		return Errorf(ELIFECYCLE, op, "cannot transition invoice from %q to %q", from, to)
	}
	return nil
}
