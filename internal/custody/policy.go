package custody

import (
	"fmt"
	"strings"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

// ApprovalPolicy decides whether an approved request may execute its transfer.
// lineage holds every request sharing the request code, including request.
type ApprovalPolicy interface {
	Name() string
	ReadyForTransfer(request *repository.Request, lineage []*repository.Request) bool
	// KeepsSiblingsOnApprove reports whether approving one request of a
	// fan-out leaves the other keepers' requests open for their votes.
	KeepsSiblingsOnApprove() bool
}

// FirstApproverWins transfers as soon as any keeper of a fan-out approves.
type FirstApproverWins struct{}

func (FirstApproverWins) Name() string { return "first_approver" }

func (FirstApproverWins) ReadyForTransfer(request *repository.Request, _ []*repository.Request) bool {
	return request.Status == repository.RequestApproved
}

func (FirstApproverWins) KeepsSiblingsOnApprove() bool { return false }

// Unanimous waits until every sibling that was not cancelled is approved.
type Unanimous struct{}

func (Unanimous) Name() string { return "unanimous" }

func (Unanimous) KeepsSiblingsOnApprove() bool { return true }

func (Unanimous) ReadyForTransfer(request *repository.Request, lineage []*repository.Request) bool {
	if request.Status != repository.RequestApproved {
		return false
	}
	for _, r := range lineage {
		switch r.Status {
		case repository.RequestApproved, repository.RequestCancelled:
		case repository.RequestPending, repository.RequestTransferred, repository.RequestExtending, repository.RequestReturned:
			return false
		default:
			return false
		}
	}
	return true
}

func PolicyByName(name string) (ApprovalPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "first_approver":
		return FirstApproverWins{}, nil
	case "unanimous":
		return Unanimous{}, nil
	default:
		return nil, fmt.Errorf("unknown approval policy %q", name)
	}
}
